package domain

// ChartKind identifies the renderer a chart artifact targets.
type ChartKind string

const (
	ChartKindHistogramGrid ChartKind = "histogram_grid"
	ChartKindHistogramPair ChartKind = "histogram_pair"
	ChartKindLine          ChartKind = "line"
	ChartKindMultiLine     ChartKind = "multi_line"
	ChartKindHeatmap       ChartKind = "heatmap"
	ChartKindScatter       ChartKind = "scatter"
	ChartKindBar           ChartKind = "bar"
)

// Chart is a renderable chart artifact: enough data for any frontend to draw
// the figure without access to the underlying table. Exactly one of the
// payload fields is populated, matching Kind.
type Chart struct {
	ID    string    `json:"id"`
	Kind  ChartKind `json:"kind"`
	Title string    `json:"title"`

	Histograms []Histogram  `json:"histograms,omitempty"`
	Series     []Series     `json:"series,omitempty"`
	Heatmap    *Heatmap     `json:"heatmap,omitempty"`
	Scatter    *ScatterData `json:"scatter,omitempty"`
	Bars       *BarData     `json:"bars,omitempty"`
}

// Series is a single line of a time-series chart. X values are RFC 3339
// dates; Y values are nil where the column is undefined.
type Series struct {
	Name string     `json:"name"`
	X    []string   `json:"x"`
	Y    []*float64 `json:"y"`
}

// Histogram holds pre-binned counts for one column. Edges has one more
// element than Counts.
type Histogram struct {
	Name   string    `json:"name"`
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// Heatmap is an annotated correlation matrix. Values[i][j] is the
// coefficient for Labels[i] x Labels[j], nil where undefined; Annotations
// carry the values formatted for display.
type Heatmap struct {
	Labels      []string     `json:"labels"`
	Values      [][]*float64 `json:"values"`
	Annotations [][]string   `json:"annotations"`
}

// ScatterData holds paired observations for a scatter plot.
type ScatterData struct {
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
}

// BarData holds one bar per category. A nil value means the category has no
// observations and should render as an empty slot, keeping the axis fixed.
type BarData struct {
	XLabel     string     `json:"x_label"`
	YLabel     string     `json:"y_label"`
	Categories []int      `json:"categories"`
	Values     []*float64 `json:"values"`
}
