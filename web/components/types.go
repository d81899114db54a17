package components

// Endpoint is one API route listed on the index page.
type Endpoint struct {
    Method      string
    Path        string
    Description string
}

// Variant selects the colour scheme of a toast.
type Variant string

const (
    VariantSuccess Variant = "success"
    VariantError   Variant = "error"
    VariantWarning Variant = "warning"
    VariantInfo    Variant = "info"
)

// ToastProps configure a Toast.
type ToastProps struct {
    Title       string
    Description string
    Variant     Variant
    // Duration in milliseconds before the toast hides itself; 0 keeps it.
    Duration    int
    Dismissible bool
    // Class is merged over the default classes.
    Class       string
}
