package wshandler

import (
	"errors"

	"github.com/Temutjin2k/rescue-coordination/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	ws "github.com/Temutjin2k/rescue-coordination/pkg/wsHub"
)

func errorResponse(conn *ws.Conn, message string) error {
	return conn.Send(dto.Control{Type: dto.ControlError, Error: message})
}

// failedValidationResponse reports a rejected field, keeping the stream open.
func failedValidationResponse(conn *ws.Conn, err error) error {
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		return conn.Send(dto.Control{Type: dto.ControlError, Error: ve.Message, Field: ve.Field})
	}
	return errorResponse(conn, err.Error())
}
