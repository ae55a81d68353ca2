package dto

// ErrorResponse cuerpo de error HTTP. Field refiere el campo ofensor en
// errores de validación, para mapearlo de vuelta al formulario.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
