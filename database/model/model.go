// Package model holds the gorm models persisted by the cadastral store.
package model

import (
	"fmt"

	"github.com/otedola/cadastral/util/json_util"

	"gorm.io/datatypes"
)

// Property names the seed feature collection uses for indexed attributes.
const (
	PropParcelID = "ParcelID"
	PropLandUse  = "Land_Use"
	PropArea     = "Area"
	PropOccupier = "OccupierID"
)

// Parcel is one cadastral unit. Id is assigned on insert and never changes;
// ParcelID and LandUse mirror the property bag so they can be indexed.
type Parcel struct {
	Id         int            `json:"id" gorm:"primaryKey;autoIncrement"`
	ParcelID   string         `json:"parcelId" gorm:"index"`
	LandUse    string         `json:"landUse" gorm:"index"`
	Properties Properties     `json:"properties"`
	Geometry   datatypes.JSON `json:"geometry"`
}

// NewParcel builds an unsaved Parcel from a feature's property bag and geometry.
func NewParcel(props map[string]any, geometry []byte) *Parcel {
	if props == nil {
		props = map[string]any{}
	}
	p := &Parcel{
		Properties: Properties(props),
		Geometry:   datatypes.JSON(geometry),
	}
	p.SyncIndex()
	return p
}

// SyncIndex copies indexed properties into their columns.
func (p *Parcel) SyncIndex() {
	p.ParcelID = PropString(p.Properties[PropParcelID])
	p.LandUse = PropString(p.Properties[PropLandUse])
}

// Prop returns a property value, or nil when absent.
func (p *Parcel) Prop(name string) any {
	if p.Properties == nil {
		return nil
	}
	return p.Properties[name]
}

// Feature renders the parcel as a GeoJSON feature keyed by its internal id.
func (p *Parcel) Feature() Feature {
	return Feature{
		Type:       "Feature",
		Id:         p.Id,
		Properties: map[string]any(p.Properties),
		Geometry:   json_util.RawMessage(p.Geometry),
	}
}

// Feature is the GeoJSON shape served to the map surface and written by exports.
type Feature struct {
	Type       string               `json:"type"`
	Id         int                  `json:"id,omitempty"`
	Properties map[string]any       `json:"properties"`
	Geometry   json_util.RawMessage `json:"geometry"`
}

// FeatureCollection wraps a list of features.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// User is a registered occupant bound to exactly one parcel.
type User struct {
	Id       int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     string `json:"name"`
	ParcelId string `json:"parcelId" gorm:"uniqueIndex;not null"`
	Password string `json:"-"`
}

// PropString renders a property value as the text used for index lookups.
// Whole numbers print without a fraction so 12 and "12" match.
func PropString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprint(s)
	default:
		return fmt.Sprint(s)
	}
}
