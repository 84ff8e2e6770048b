package domain

import "strings"

// Vehicle is the involved vehicle or road user category.
type Vehicle string

const (
	VehicleCar         Vehicle = "car"
	VehicleAmbulance   Vehicle = "ambulance"
	VehicleBike        Vehicle = "bike"
	VehiclePickupTruck Vehicle = "pickup_truck"
	VehicleMotorcycle  Vehicle = "motorcycle"
	VehicleTruck       Vehicle = "truck"
	VehiclePedestrian  Vehicle = "pedestrian"
	VehicleMiniBus     Vehicle = "mini_bus"
	VehicleTrailer     Vehicle = "trailer"
	VehicleBus         Vehicle = "bus"
	VehicleCementMixer Vehicle = "cement_mixer"
	VehicleOther       Vehicle = "other"

	// VehicleHeavy groups every category outside the simplified set.
	VehicleHeavy Vehicle = "heavy"
)

// vehicleNames maps the Persian spellings found in the register to a
// category. Both Arabic (U+064A) and Persian (U+06CC) yeh occur.
var vehicleNames = map[string]Vehicle{
	"سواري":        VehicleCar,
	"سواری":        VehicleCar,
	"راننده خودرو": VehicleCar,
	"سرنشین خودرو": VehicleCar,
	"آمبولانس":     VehicleAmbulance,
	"دوچرخه":       VehicleBike,
	"وانت بار":     VehiclePickupTruck,
	"موتورسيکلت":   VehicleMotorcycle,
	"سرنشین موتور": VehicleMotorcycle,
	"راکب موتور":   VehicleMotorcycle,
	"کاميون":       VehicleTruck,
	"کاميونت":      VehicleTruck,
	"عابر":         VehiclePedestrian,
	"عابر پیاده":   VehiclePedestrian,
	"ميني بوس":     VehicleMiniBus,
	"تريلر":        VehicleTrailer,
	"تريلي":        VehicleTrailer,
	"اتوبوس":       VehicleBus,
	"میکسر":        VehicleCementMixer,
}

// ClassifyVehicle maps free vehicle text to a category; unknown text is other.
func ClassifyVehicle(text string) Vehicle {
	if v, ok := vehicleNames[strings.TrimSpace(text)]; ok {
		return v
	}
	return VehicleOther
}

// SimplifyVehicle collapses a category to car, bike, motorcycle, pedestrian
// or heavy.
func SimplifyVehicle(v Vehicle) Vehicle {
	switch v {
	case VehicleCar, VehicleBike, VehicleMotorcycle, VehiclePedestrian:
		return v
	default:
		return VehicleHeavy
	}
}
