package repository

// Backend is everything the gateway consumes from the Forto REST backend
type Backend interface {
	AuthGateway
	InvoiceGateway
	ShiftGateway
	ReservationGateway
	ReportGateway
	CatalogRepository
}
