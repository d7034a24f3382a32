package templates

import "autosales-dashboard/internal/models"

const (
	PageTitle   = "Automobile Sales Dashboard"
	HeaderTitle = "Automobile Sales Statistics Dashboard"

	OutputContainerID = "output-container"
	datastarScript    = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"
)

// ChartItem is one cell of the 2x2 chart grid. An empty SVG renders a
// placeholder cell.
type ChartItem struct {
	Index int
	Title string
	Kind  models.ChartKind
	SVG   string
}
