package excel

// RawTable is a file read as text: a header row and the data rows below it
type RawTable struct {
	Headers []string
	Rows    [][]string
}
