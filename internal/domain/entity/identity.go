package entity

// ExternalIdentity is what a federated login provider tells us about the
// person who just signed in.
type ExternalIdentity struct {
	Provider string
	Subject  string // provider-issued user id
	Email    string
	Name     string
}
