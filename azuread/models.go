package azuread

// userResource is the subset of the Graph user resource the action reads.
type userResource struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName,omitempty"`
	UserPrincipalName string `json:"userPrincipalName,omitempty"`
}
