package util

import (
	"net/http"

	"github.com/papertrade/papertrade/internal/model"
	"github.com/papertrade/papertrade/internal/template"
	"github.com/sirupsen/logrus"
)

// ApologyData is the page data for the apology template.
type ApologyData struct {
	User    model.User
	Status  int
	Message string
}

// RespondApology renders the apology page with a status code and message.
func RespondApology(writer http.ResponseWriter, status int, message string) {
	writer.WriteHeader(status)
	template.Render(template.Apology, writer, ApologyData{
		Status:  status,
		Message: message,
	})
}

// RespondValidationError responds to a rejectable request with a 400 apology.
func RespondValidationError(writer http.ResponseWriter, message string) {
	RespondApology(writer, http.StatusBadRequest, message)
}

// RespondInternalServerError logs an error and renders a generic 500 apology.
//
// The error itself is never shown to the user.
func RespondInternalServerError(writer http.ResponseWriter, err error) {
	logrus.WithError(err).Error("internal error")
	RespondApology(writer, http.StatusInternalServerError, "internal server error")
}
