package timeline

import "github.com/BearBump/ShipTrack/internal/models"

// Style is the visual treatment of a status badge.
type Style struct {
	Label string `json:"label"`
	Badge string `json:"badge"`
	Icon  string `json:"icon"`
}

// Every status constant must have an entry; see TestStyles_Exhaustive.
var shipmentStyles = map[models.ShipmentStatus]Style{
	models.ShipmentStatusProcessing: {Label: "Processing", Badge: "badge-info", Icon: "package"},
	models.ShipmentStatusInTransit:  {Label: "In Transit", Badge: "badge-warning", Icon: "truck"},
	models.ShipmentStatusDelivered:  {Label: "Delivered", Badge: "badge-success", Icon: "check-circle"},
}

var checkpointStyles = map[models.CheckpointStatus]Style{
	models.CheckpointStatusCompleted: {Label: "Completed", Badge: "badge-success", Icon: "check-circle"},
	models.CheckpointStatusCurrent:   {Label: "In Progress", Badge: "badge-warning", Icon: "clock"},
	models.CheckpointStatusPending:   {Label: "Pending", Badge: "badge-muted", Icon: "circle"},
}

var fallbackStyle = Style{Badge: "badge-muted", Icon: "circle"}

func ShipmentStyle(s models.ShipmentStatus) Style {
	if st, ok := shipmentStyles[s]; ok {
		return st
	}
	st := fallbackStyle
	st.Label = string(s)
	return st
}

func CheckpointStyle(s models.CheckpointStatus) Style {
	if st, ok := checkpointStyles[s]; ok {
		return st
	}
	st := fallbackStyle
	st.Label = string(s)
	return st
}
