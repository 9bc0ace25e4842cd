package ctdf

type TransportType string

const (
	TransportTypeTrain  TransportType = "train"
	TransportTypeFlight TransportType = "flight"
)

// SearchableTransportTypes is the order modes are searched and combined in
var SearchableTransportTypes = []TransportType{TransportTypeTrain, TransportTypeFlight}

func (t TransportType) Valid() bool {
	return t == TransportTypeTrain || t == TransportTypeFlight
}
