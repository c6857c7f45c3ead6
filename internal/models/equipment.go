package models

// EquipmentRecord is an item from the equipment collection.
type EquipmentRecord struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"`
	Status   string   `json:"status"`
	Quantity int      `json:"quantity"`
	Raw      Document `json:"-"`
}

// NeedsMaintenance reports whether the item is out of service.
func (e EquipmentRecord) NeedsMaintenance() bool {
	switch e.Status {
	case "maintenance", "broken", "repair":
		return true
	}
	return false
}
