package clinic

import (
	"context"
	"strings"

	"vetadmin/internal/platform/apperr"
	"vetadmin/internal/platform/multistep"
)

// DeletePet borra la mascota con sus turnos e historia clínica. Las ventas
// que la referencian se conservan con la mascota en nil.
func (s *Store) DeletePet(ctx context.Context, petID string) error {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return apperr.Invalid("pet id is required")
	}
	if err := s.Pets.Exists(ctx, petID); err != nil {
		return err
	}

	op := multistep.New("pet.delete")
	if err := s.deletePetSteps(ctx, op, petID, ""); err != nil {
		return multistep.Observe(s.log, err)
	}
	s.log.Info("pet deleted", map[string]any{"pet_id": petID})
	return nil
}

// deletePetSteps agrega a op los pasos de la cascada de una mascota.
// prefix distingue los pasos cuando corren dentro del borrado de un cliente.
func (s *Store) deletePetSteps(ctx context.Context, op *multistep.Operation, petID, prefix string) error {
	steps := []struct {
		name string
		fn   func(ctx context.Context) error
	}{
		{"delete_appointments", func(ctx context.Context) error {
			_, err := s.Appointments.DeleteByPet(ctx, petID)
			return err
		}},
		{"delete_history", func(ctx context.Context) error {
			return s.History.DeleteByPet(ctx, petID)
		}},
		{"clear_sales_pet", func(ctx context.Context) error {
			_, err := s.Sales.ClearPet(ctx, petID)
			return err
		}},
		{"delete_pet", func(ctx context.Context) error {
			return s.Pets.Delete(ctx, petID)
		}},
	}
	for _, st := range steps {
		if err := op.Step(ctx, prefix+st.name, st.fn); err != nil {
			return err
		}
	}
	return nil
}

// DeleteClient borra el cliente, sus mascotas (cada una con su cascada) y sus
// turnos. Sus ventas quedan con el cliente en nil.
func (s *Store) DeleteClient(ctx context.Context, clientID string) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return apperr.Invalid("client id is required")
	}
	if err := s.Clients.Exists(ctx, clientID); err != nil {
		return err
	}
	owned, err := s.Pets.ListByClient(ctx, clientID)
	if err != nil {
		return err
	}

	op := multistep.New("client.delete")
	for _, p := range owned {
		if err := s.deletePetSteps(ctx, op, p.ID, "pet:"+p.ID+":"); err != nil {
			return multistep.Observe(s.log, err)
		}
	}

	if err := op.Step(ctx, "delete_appointments", func(ctx context.Context) error {
		_, err := s.Appointments.DeleteByClient(ctx, clientID)
		return err
	}); err != nil {
		return multistep.Observe(s.log, err)
	}
	if err := op.Step(ctx, "clear_sales_client", func(ctx context.Context) error {
		_, err := s.Sales.ClearClient(ctx, clientID)
		return err
	}); err != nil {
		return multistep.Observe(s.log, err)
	}
	if err := op.Step(ctx, "delete_client", func(ctx context.Context) error {
		return s.Clients.Delete(ctx, clientID)
	}); err != nil {
		return multistep.Observe(s.log, err)
	}

	s.log.Info("client deleted", map[string]any{"client_id": clientID, "pets": len(owned)})
	return nil
}
