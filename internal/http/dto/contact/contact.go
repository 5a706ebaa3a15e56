// Package contact contiene DTOs para el formulario de contacto.
package contact

// ContactRequest es el body de POST /api/contact.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactResponse es la respuesta de éxito.
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
