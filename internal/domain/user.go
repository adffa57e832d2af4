package domain

type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Contact returns the client_details snapshot used when the user submits a quote.
func (u User) Contact() ClientDetails {
	return ClientDetails{Name: u.Name, Email: u.Email, Phone: u.Phone, Address: u.Address}
}
