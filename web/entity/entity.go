// Package entity defines the response envelope shared by the web handlers.
package entity

// Msg is the standard API response: success flag, user-facing message and an
// optional payload.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

// Redirect tells the client which surface to navigate to next.
type Redirect struct {
	Redirect string `json:"redirect"`
}

// Dashboard is the signed-in owner's view of their parcel.
type Dashboard struct {
	Name       string         `json:"name"`
	ParcelID   string         `json:"parcelId"`
	LandUse    string         `json:"landUse"`
	Area       string         `json:"area"`
	Occupier   string         `json:"occupier"`
	Properties map[string]any `json:"properties"`
}
