// Package seed loads the static parcel feature collection used to populate
// an empty registry.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/otedola/cadastral/database/model"
	"github.com/otedola/cadastral/util/json_util"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

const fetchTimeout = 30 * time.Second

// Feature is one record of the seed file. Any id it carries is ignored; the
// store assigns its own.
type Feature struct {
	Type       string               `json:"type"`
	Properties map[string]any       `json:"properties"`
	Geometry   json_util.RawMessage `json:"geometry"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Parcels converts the features into unsaved parcels, in file order. A null
// geometry is stored as no geometry.
func (fc *FeatureCollection) Parcels() []*model.Parcel {
	parcels := make([]*model.Parcel, 0, len(fc.Features))
	for _, f := range fc.Features {
		geometry := f.Geometry
		if geometry.IsNull() {
			geometry = nil
		}
		parcels = append(parcels, model.NewParcel(f.Properties, geometry))
	}
	return parcels
}

// Load reads a feature collection from a file path or an http(s) URL.
func Load(ctx context.Context, source string) (*FeatureCollection, error) {
	if source == "" {
		return nil, fmt.Errorf("seed source is empty")
	}
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", source, err)
	}
	return Decode(data)
}

// Decode parses a GeoJSON FeatureCollection.
func Decode(data []byte) (*FeatureCollection, error) {
	fc := &FeatureCollection{}
	if err := json.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("decode seed: expected FeatureCollection, got %q", fc.Type)
	}
	return fc, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	timeout := fetchTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/geo+json, application/json")

	client := &fasthttp.Client{}
	if err := client.DoTimeout(req, resp, timeout); err != nil {
		return nil, err
	}
	if code := resp.StatusCode(); code != fasthttp.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", code)
	}
	body := resp.Body()
	// resp is released on return
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}
