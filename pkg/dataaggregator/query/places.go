package query

type Places struct {
	Name  string
	Limit int
}
