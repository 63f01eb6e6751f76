package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=5,max=50"`
	Email    string `json:"email"    validate:"required,min=5,max=255,email"`
	Password string `json:"password" validate:"required,min=5,max=255"`
}

// userResponse is the only shape an account is ever serialized to. It is an
// allow-listed projection: fields added to domain.User later do not leak here.
type userResponse struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
