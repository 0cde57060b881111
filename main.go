package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/otedola/cadastral/config"
	"github.com/otedola/cadastral/database"
	"github.com/otedola/cadastral/database/model"
	"github.com/otedola/cadastral/logger"
	"github.com/otedola/cadastral/util/common"
	"github.com/otedola/cadastral/util/crypto"
	"github.com/otedola/cadastral/web"
	"github.com/otedola/cadastral/web/service"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func initLogger() {
	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
}

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())
	initLogger()
	defer logger.CloseLogger()

	err := database.InitDB(config.GetDBPath())
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseDB()

	server := web.NewServer(database.GetDB())
	err = server.Start()
	if err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, os.Interrupt)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			err := server.Stop()
			if err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer(database.GetDB())
			err = server.Start()
			if err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func seedParcels(source string) {
	initLogger()
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}
	defer database.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	parcels := service.NewParcelService(database.GetDB())
	n, err := parcels.SeedFromSource(ctx, source)
	if err != nil {
		fmt.Println("seed parcels failed:", err)
		return
	}
	total, err := parcels.Count()
	if err != nil {
		fmt.Println("count parcels failed:", err)
		return
	}
	fmt.Printf("seeded %d parcels, registry holds %d\n", n, total)
}

func showUser(parcelId string) {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}
	defer database.CloseDB()

	parcels := service.NewParcelService(database.GetDB())
	users := service.NewUserService(database.GetDB(), parcels, crypto.Bcrypt{})
	profile, err := users.GetProfile(parcelId)
	if err != nil {
		fmt.Println("get user failed:", err)
		return
	}
	fmt.Println("name:", profile.User.Name)
	fmt.Println("parcel id:", profile.User.ParcelId)
	fmt.Println("land use:", profile.Parcel.LandUse)
	fmt.Println("area:", common.FormatArea(profile.Parcel.Prop(model.PropArea)))
}

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatal(err)
	}

	var rootCmd = &cobra.Command{
		Use: config.GetName(),
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Load the parcel layer into an empty registry",
		Run: func(cmd *cobra.Command, args []string) {
			source, _ := cmd.Flags().GetString("source")
			seedParcels(source)
		},
	}
	seedCmd.Flags().String("source", config.GetSeedSource(), "feature collection file path or http(s) URL")

	var userCmd = &cobra.Command{
		Use:   "user",
		Short: "Inspect registered owners",
	}

	var showCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the owner registered for a parcel",
		Run: func(cmd *cobra.Command, args []string) {
			parcelId, _ := cmd.Flags().GetString("parcel")
			showUser(parcelId)
		},
	}
	showCmd.Flags().String("parcel", "", "parcel id")
	_ = showCmd.MarkFlagRequired("parcel")

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.GetVersion())
		},
	}

	userCmd.AddCommand(showCmd)
	rootCmd.AddCommand(runCmd, seedCmd, userCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
