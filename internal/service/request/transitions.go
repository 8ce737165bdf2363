package request

import (
	"github.com/medipoint/clinic-api/internal/model"
	"github.com/medipoint/clinic-api/pkg/errors"
)

// checkTransition enforces the status state machine and the actor policy:
//
//   - completed and cancelled are terminal, nothing leaves them
//   - staff may set any status from any non-terminal prior status
//   - a patient may only cancel their own pending request
//
// Any violation is reported as ErrInvalidTransition; the request is unchanged.
func checkTransition(actor model.Actor, req *model.ClinicRequest, to model.RequestStatus) error {
	if !to.Valid() {
		return errors.NewInvalidTransition(string(req.Status), string(to))
	}
	if req.Status.Terminal() {
		return errors.NewInvalidTransition(string(req.Status), string(to))
	}
	if actor.Staff() {
		return nil
	}
	if actor.SubjectID != req.PatientID {
		return errors.NewInvalidTransition(string(req.Status), string(to))
	}
	if req.Status == model.RequestStatusPending && to == model.RequestStatusCancelled {
		return nil
	}
	return errors.NewInvalidTransition(string(req.Status), string(to))
}
