package dataset

// ColumnProfile summarizes the present values of one numeric column.
// Statistics are zero when Count is zero.
type ColumnProfile struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	Missing  int     `json:"missing"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Q25      float64 `json:"q25"`
	Median   float64 `json:"median"`
	Q75      float64 `json:"q75"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
	Outliers int     `json:"outliers"`
}
