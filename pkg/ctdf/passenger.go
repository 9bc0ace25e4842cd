package ctdf

type Passenger struct {
	DateOfBirth string `groups:"internal" json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	FirstName   string `groups:"internal" json:"firstName" validate:"required"`
	LastName    string `groups:"internal" json:"lastName" validate:"required"`
	Gender      string `groups:"internal" json:"gender" validate:"omitempty,oneof=male female"`
	Email       string `groups:"internal" json:"email" validate:"required,email"`
	PhoneNumber string `groups:"internal" json:"phoneNumber,omitempty"`

	PassportInformation *PassportInformation `groups:"internal" json:"passportInformation,omitempty" validate:"omitempty"`
	ResidentialAddress  *ResidentialAddress  `groups:"internal" json:"residentialAddress,omitempty" validate:"omitempty"`
}

type PassportInformation struct {
	DocumentType   string `groups:"internal" json:"documentType"`
	DocumentNumber string `groups:"internal" json:"documentNumber" validate:"required"`
	IssueCountry   string `groups:"internal" json:"issueCountry" validate:"required,len=2"`
	Nationality    string `groups:"internal" json:"nationality" validate:"required,len=2"`
	ExpirationDate string `groups:"internal" json:"expirationDate" validate:"required,datetime=2006-01-02"`
	IssueDate      string `groups:"internal" json:"issueDate" validate:"omitempty,datetime=2006-01-02"`
}

type ResidentialAddress struct {
	AddressLines []string `groups:"internal" json:"addressLines" validate:"required,min=1"`
	CountryCode  string   `groups:"internal" json:"countryCode" validate:"required,len=2"`
	PostalCode   string   `groups:"internal" json:"postalCode" validate:"required"`
	City         string   `groups:"internal" json:"city" validate:"required"`
}
