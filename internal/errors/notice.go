package errors

// Localized, non-blocking messages shown to the user when an operation fails.
const (
	NoticeLoadFailed     = "No se pudo cargar el documento"
	NoticeNotFound       = "El documento no existe"
	NoticeNetwork        = "No se pudo conectar con el servidor. Intentá nuevamente."
	NoticeValidation     = "Los datos ingresados no son válidos"
	NoticeGenerateFailed = "Error al generar contenido con IA"
	NoticeChatFailed     = "Error al procesar el mensaje"
	NoticeSaveFailed     = "No se pudieron guardar los cambios"
	NoticePublishFailed  = "No se pudo publicar el documento"
	NoticeUnexpected     = "Ocurrió un error inesperado"
)

// Notice returns the user-facing message for err.
func Notice(err error) string {
	if err == nil {
		return ""
	}
	switch KindOf(err) {
	case KindNotFound:
		return NoticeNotFound
	case KindNetwork:
		return NoticeNetwork
	case KindValidation, KindConflict:
		return NoticeValidation
	}
	return NoticeUnexpected
}
