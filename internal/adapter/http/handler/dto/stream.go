package dto

import (
	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
)

// Frame is the wire shape of a stream event. The snapshot and audience used for routing
// stay on the server.
type Frame struct {
	Kind     types.EventKind    `json:"kind"`
	RescueID int64              `json:"rescueId"`
	Seq      int64              `json:"seq"`
	Payload  models.RescuePatch `json:"payload"`
}

func NewFrame(e models.RescueEvent) Frame {
	return Frame{Kind: e.Kind, RescueID: e.RescueID, Seq: e.Seq, Payload: e.Payload}
}

// ViewportMessage moves a websocket viewport without reconnecting.
type ViewportMessage struct {
	Type string `json:"type"`

	MinLat            *float64 `json:"minLat"`
	MaxLat            *float64 `json:"maxLat"`
	MinLng            *float64 `json:"minLng"`
	MaxLng            *float64 `json:"maxLng"`
	VehicleType       string   `json:"vehicleType"`
	Drivetrain        string   `json:"drivetrain"`
	TerrainType       string   `json:"terrainType"`
	ProblemType       string   `json:"problemType"`
	AssistanceStatus  string   `json:"assistanceStatus"`
	AssistanceChannel string   `json:"assistanceChannel"`
	Status            string   `json:"status"`
}

// Filter converts the message. Missing bounds select the whole world.
func (m ViewportMessage) Filter() models.RescueFilter {
	f := models.RescueFilter{
		Bounds:            models.World,
		VehicleType:       types.VehicleType(m.VehicleType),
		Drivetrain:        types.Drivetrain(m.Drivetrain),
		TerrainType:       types.TerrainType(m.TerrainType),
		ProblemType:       types.ProblemType(m.ProblemType),
		AssistanceStatus:  types.AssistanceStatus(m.AssistanceStatus),
		AssistanceChannel: types.AssistanceChannel(m.AssistanceChannel),
		Status:            types.RescueStatus(m.Status),
	}
	if m.MinLat != nil && m.MaxLat != nil && m.MinLng != nil && m.MaxLng != nil {
		f.Bounds = models.Bounds{MinLat: *m.MinLat, MaxLat: *m.MaxLat, MinLng: *m.MinLng, MaxLng: *m.MaxLng}
	}
	return f
}

const (
	ControlSubscribed = "subscribed"
	ControlViewport   = "viewport"
	ControlError      = "error"
)

// Control is a websocket message that is not a rescue frame. It tells the client the
// stream is ready, acknowledges a viewport change or reports a rejected message.
type Control struct {
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
	Field string `json:"field,omitempty"`
}
