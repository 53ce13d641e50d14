package handler

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type registerForm struct {
	Username string `form:"username" validate:"required,min=3,max=32,alphanum"`
	Email    string `form:"email" validate:"required,email,max=255"`
	FullName string `form:"full_name" validate:"required,min=1,max=100"`
	Password string `form:"password" validate:"required,min=8,max=72"`
}

// profileForm backs both the HTML profile form and the JSON profile API.
type profileForm struct {
	FullName string `form:"full_name" json:"full_name" validate:"required,min=1,max=100"`
	Email    string `form:"email" json:"email" validate:"required,email,max=255"`
}

type errorResponse struct {
	Error  string      `json:"error"`
	Fields FieldErrors `json:"fields,omitempty"`
}
