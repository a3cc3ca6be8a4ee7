package clients

import "context"

// Exists devuelve nil si el cliente existe.
// Lo consumen otros módulos (mascotas, turnos, ventas) vía interfaces chicas,
// sin importar este paquete.
func (s *Service) Exists(ctx context.Context, id string) error {
	_, err := s.GetByID(ctx, id)
	return err
}
