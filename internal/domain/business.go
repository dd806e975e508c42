package domain

// BusinessInfo is the single editable storefront profile.
type BusinessInfo struct {
	BusinessName string `json:"businessName"`
	OwnerName    string `json:"ownerName"`
	Experience   string `json:"experience"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Description  string `json:"description"`
	LogoURL      string `json:"logoUrl,omitempty"`
}

// WithDefaults fills empty fields with the storefront's fallback copy.
func (b BusinessInfo) WithDefaults() BusinessInfo {
	if b.BusinessName == "" {
		b.BusinessName = "Royal Hood Wood Works"
	}
	if b.OwnerName == "" {
		b.OwnerName = "John Doe"
	}
	if b.Experience == "" {
		b.Experience = "15+ years"
	}
	if b.Phone == "" {
		b.Phone = "+91 9876543210"
	}
	if b.Address == "" {
		b.Address = "123 Main Street, City"
	}
	if b.Description == "" {
		b.Description = "Premium wood furniture and interior design services"
	}
	return b
}
