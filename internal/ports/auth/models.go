package auth

// Claims identifica al usuario del personal de la clínica que hace el request.
type Claims struct {
	UserID string
	Email  string
	Role   string
}
