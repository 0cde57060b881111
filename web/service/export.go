package service

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/otedola/cadastral/database/model"

	"github.com/goccy/go-json"
)

var csvHeader = []string{"parcel_id", "owner_name", "area_m2", "land_use"}

// ExportCSV writes one row per parcel: Parcel ID, occupier, area, land use.
func ExportCSV(w io.Writer, parcels []model.Parcel) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range parcels {
		p := &parcels[i]
		row := []string{
			p.ParcelID,
			cell(p.Prop(model.PropOccupier)),
			cell(p.Prop(model.PropArea)),
			p.LandUse,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportGeoJSON writes parcels as an indented FeatureCollection.
func ExportGeoJSON(w io.Writer, parcels []model.Parcel) error {
	fc := FeatureCollection(parcels)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}

// FeatureCollection renders parcels for the map surface.
func FeatureCollection(parcels []model.Parcel) model.FeatureCollection {
	fc := model.FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]model.Feature, 0, len(parcels)),
	}
	for i := range parcels {
		fc.Features = append(fc.Features, parcels[i].Feature())
	}
	return fc
}

func cell(v any) string {
	if v == nil {
		return ""
	}
	if _, ok := v.(float64); ok {
		return model.PropString(v)
	}
	return fmt.Sprint(v)
}
