package screen

// ToastKind selects how a toast is styled.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
	ToastWarning ToastKind = "warning"
)

// Toast is a transient notification. It expires on its own after the configured TTL.
type Toast struct {
	Text string
	Kind ToastKind
}

// User-facing messages.
const (
	msgLoaded        = "Productos cargados."
	msgLoadFailed    = "No se pudieron cargar los productos."
	msgResyncFailed  = "No se pudo actualizar la lista de productos."
	msgEmptyName     = "El nombre no puede estar vacío."
	msgNonPositive   = "El precio debe ser mayor que cero."
	msgAdded         = "Producto agregado exitosamente."
	msgUpdated       = "Producto actualizado exitosamente."
	msgSaveFailed    = "Ocurrió un error al guardar el producto."
	msgDeleted       = "Producto eliminado exitosamente."
	msgDeleteFailed  = "Ocurrió un error al eliminar el producto."
	msgEditCancelled = "Edición cancelada."
	msgExported      = "Inventario exportado a %s."
	msgExportFailed  = "No se pudo exportar el inventario."
	msgThemeDark     = "Tema oscuro activado."
	msgThemeLight    = "Tema claro activado."
	msgThemeNotSaved = "El tema no se pudo guardar."
	historyAdded     = "Producto agregado: %s"
	historyUpdated   = "Producto actualizado: %s"
	historyDeleted   = "Producto eliminado: %s"
	historyCancelled = "Edición cancelada: %s"
	historyExported  = "Inventario exportado (%d productos)"
)
