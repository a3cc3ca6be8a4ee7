package pets

import "context"

// OwnerOf expone el clientID dueño de una mascota.
// Se usa para evitar ciclos de imports (turnos, ventas -> pets).
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.ClientID, nil
}

// Exists devuelve nil si la mascota existe.
func (s *Service) Exists(ctx context.Context, petID string) error {
	_, err := s.GetByID(ctx, petID)
	return err
}
