package converter

import (
	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/domain/entity"
)

// SlotToResponse formats a Slot for the wire
func SlotToResponse(slot entity.Slot) dto.SlotResponse {
	return dto.SlotResponse{
		Date:      slot.Day(),
		StartTime: slot.StartTime.String(),
		EndTime:   slot.EndTime.String(),
	}
}

// SlotRequestToEntity parses and validates a wire slot
func SlotRequestToEntity(req dto.SlotRequest) (entity.Slot, error) {
	return entity.NewSlot(req.Date, req.StartTime, req.EndTime)
}

// SlotRequestsToEntities keeps the request order
func SlotRequestsToEntities(reqs []dto.SlotRequest) ([]entity.Slot, error) {
	slots := make([]entity.Slot, 0, len(reqs))
	for _, req := range reqs {
		slot, err := SlotRequestToEntity(req)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}
