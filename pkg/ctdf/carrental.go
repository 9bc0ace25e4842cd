package ctdf

type CarRental struct {
	PrimaryIdentifier string `groups:"basic" yaml:"id"`
	Company           string `groups:"basic" yaml:"company"`
	Model             string `groups:"basic" yaml:"model"`
	Category          string `groups:"basic" yaml:"category"`
	Seats             int    `groups:"detailed" yaml:"seats"`

	City string `groups:"basic" yaml:"city"`

	// Minor currency units
	PricePerDay int64  `groups:"basic" yaml:"pricePerDay"`
	Currency    string `groups:"basic" yaml:"currency"`
}
