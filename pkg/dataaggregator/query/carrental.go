package query

type CarRentals struct {
	City string
}
