package handlers

import "fmt"

// User-facing messages. The web client matches on some of them, keep them stable.
const (
	MsgMissingData        = "Debe proporcionar todos los datos requeridos."
	MsgImageTooLarge      = "Ha superado el tamaño establecido para las imágenes [%s]"
	MsgUnsupportedImage   = "El archivo proporcionado no es una imagen válida."
	MsgImageSaveFailed    = "Error al intentar guardar la imagen, vuelva a intentar"
	MsgRegisterFailed     = "Error en proceso de registro, vuelva a intentar"
	MsgEmailTaken         = "Ya existe un usuario registrado con su email"
	MsgRegisterOK         = "Usuario registrado con éxito con ID: %d"
	MsgMissingCredentials = "Debe proporcionar todos los datos."
	MsgInvalidCredentials = "Credenciales inválidas."
	MsgLoginOK            = "Login realizado con éxito"
	MsgLoginFailed        = "Error en proceso de login."
	MsgUpdateOK           = "Usuario actualizado con éxito."
	MsgUpdateFailed       = "Error al intentar actualizar los datos del usuario."
	MsgMissingPassword    = "Password no proporcionado para corroborar eliminación de cuenta."
	MsgDeleteRejected     = "usuario no existe / contraseña no corroboración no válida."
	MsgDeleteOK           = "Usuario eliminado correctamente."
	MsgDeleteFailed       = "Error al intentar eliminar al usuario."
	MsgMissingID          = "Debe proporcionar el id del usuario al que desea cambiarle el estado."
	MsgInvalidID          = "El id del usuario debe ser un número entero positivo."
	MsgInvalidEstado      = "El estado debe ser true o false."
	MsgStatusNotFound     = "el usuario que desea modificar no fue encontrado /  asegurese de refrescar la página."
	MsgStatusOK           = "Usuario modificado con éxito."
	MsgStatusFailed       = "Error al intentar actualizar el estado del usuario, vuelva a intentar."
	MsgListFailed         = "No se han podido cargar los datos."
	MsgUserNotFound       = "Usuario no encontrado"
	MsgHomeError          = "No se han podido cargar los datos en la vista."
	MsgPageError          = "Ups! ha ocurrido un error."
	MsgAdminError         = "Error al cargar datos"
	MsgNotFound           = "Página no encontrada."
	MsgInternalError      = "Error interno del servidor."
	MsgTooManyAttempts    = "Demasiados intentos de inicio de sesión, vuelva a intentar en un minuto."
)

// ImageTooLargeMessage fills MsgImageTooLarge with the configured upload cap.
func ImageTooLargeMessage(limit int64) string {
	const (
		kib = 1024
		mib = 1024 * kib
	)

	var size string
	switch {
	case limit >= mib && limit%mib == 0:
		size = fmt.Sprintf("%d mbs.", limit/mib)
	case limit >= mib:
		size = fmt.Sprintf("%.1f mbs.", float64(limit)/mib)
	case limit >= kib:
		size = fmt.Sprintf("%d kbs.", limit/kib)
	default:
		size = fmt.Sprintf("%d bytes", limit)
	}
	return fmt.Sprintf(MsgImageTooLarge, size)
}
