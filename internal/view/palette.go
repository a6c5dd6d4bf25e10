package view

// High-contrast color pairs for data markers and model lines. Datasets are
// assigned a pair by insertion position; once the palette is exhausted the
// symbol and dash cycles advance, so two datasets never share an identical
// (color, symbol) combination until the full product space wraps.
var datasetColors = []struct {
	Data  string
	Model string
}{
	{"#1f77b4", "#ff7f0e"}, // blue / orange
	{"#2ca02c", "#d62728"}, // green / red
	{"#e377c2", "#7f7f7f"}, // pink / gray
	{"#17becf", "#bcbd22"}, // cyan / olive
	{"#393b79", "#e7969c"}, // navy / salmon
	{"#8c6d31", "#e7ba52"}, // sienna / gold
}

// Marker symbols cycled through once the color palette wraps.
var markerSymbols = []string{"circle", "x", "diamond", "square", "cross"}

// Line dash patterns cycled in step with the marker symbols.
var lineDashes = []string{"solid", "dash", "dot", "dashdot", "longdash"}

// Style is the render hint attached to a dataset's series pair.
type Style struct {
	DataColor  string `json:"data_color"`
	ModelColor string `json:"model_color"`
	Symbol     string `json:"symbol"`
	Dash       string `json:"dash"`
}

// styleFor deterministically assigns a style by a dataset's position in the
// registry's insertion order.
func styleFor(index int) Style {
	colors := datasetColors[index%len(datasetColors)]
	cycle := index / len(datasetColors)
	return Style{
		DataColor:  colors.Data,
		ModelColor: colors.Model,
		Symbol:     markerSymbols[cycle%len(markerSymbols)],
		Dash:       lineDashes[cycle%len(lineDashes)],
	}
}
