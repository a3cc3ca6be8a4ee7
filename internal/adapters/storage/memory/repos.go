package memory

import "vetadmin/internal/clinic"

// NewRepositories arma el juego completo de repositorios en memoria.
func NewRepositories() clinic.Repositories {
	return clinic.Repositories{
		Clients:      NewClientRepo(),
		Pets:         NewPetRepo(),
		Catalog:      NewCatalogRepo(),
		Products:     NewProductRepo(),
		Sales:        NewSaleRepo(),
		Payments:     NewPaymentRepo(),
		Appointments: NewAppointmentRepo(),
		Events:       NewEventRepo(),
		Records:      NewRecordRepo(),
		Expenses:     NewExpenseRepo(),
	}
}
