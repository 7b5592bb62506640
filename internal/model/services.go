package model

// ItemServices is the registry of item production/storage services.
var ItemServices = NewFlagRegistry("item", []FlagDescriptor{
	{Name: "bmats", Bit: 1 << 0, Display: "Basic Materials"},
	{Name: "rmats", Bit: 1 << 1, Display: "Refined Materials"},
	{Name: "cmats", Bit: 1 << 2, Display: "Construction Materials"},
	{Name: "pcmats", Bit: 1 << 3, Display: "Processed Construction Materials"},
	{Name: "concrete", Bit: 1 << 4, Display: "Concrete"},
	{Name: "steel", Bit: 1 << 5, Display: "Steel Construction Materials"},
	{Name: "assembly_materials", Bit: 1 << 6, Display: "Assembly Materials"},
	{Name: "petrol", Bit: 1 << 7, Display: "Petrol"},
	{Name: "heavy_oil", Bit: 1 << 8, Display: "Heavy Oil"},
	{Name: "enriched_oil", Bit: 1 << 9, Display: "Enriched Oil"},
	{Name: "water", Bit: 1 << 10, Display: "Water"},
	{Name: "salvage", Bit: 1 << 11, Display: "Salvage"},
	{Name: "components", Bit: 1 << 12, Display: "Components"},
	{Name: "sulfur", Bit: 1 << 13, Display: "Sulfur"},
	{Name: "coal", Bit: 1 << 14, Display: "Coal"},
	{Name: "ammo_factory", Bit: 1 << 15, Display: "Ammunition Factory"},
	{Name: "weapons_factory", Bit: 1 << 16, Display: "Weapons Factory"},
	{Name: "uniforms", Bit: 1 << 17, Display: "Uniforms"},
	{Name: "medical", Bit: 1 << 18, Display: "Medical Supplies"},
	{Name: "storage", Bit: 1 << 19, Display: "Public Storage"},
})

// VehicleServices is the registry of vehicle production and upkeep services.
// Produces lists the vehicles a service can build, used for discovery.
var VehicleServices = NewFlagRegistry("vehicle", []FlagDescriptor{
	{Name: "garage", Bit: 1 << 0, Display: "Garage", Produces: []string{"Truck", "Motorcycle", "Field Gun", "Armoured Car"}},
	{Name: "small_assembly", Bit: 1 << 1, Display: "Small Assembly Station", Produces: []string{"Light Tank", "Half-Track", "Flatbed Truck"}},
	{Name: "large_assembly", Bit: 1 << 2, Display: "Large Assembly Station", Produces: []string{"Battle Tank", "Destroyer Tank", "Siege Tank"}},
	{Name: "shipyard", Bit: 1 << 3, Display: "Shipyard", Produces: []string{"Barge", "Gunboat", "Landing Ship"}},
	{Name: "field_workshop", Bit: 1 << 4, Display: "Field Workshop", Produces: []string{"Field Gun", "Anti-Tank Gun"}},
	{Name: "tank_assembly", Bit: 1 << 5, Display: "Tank Assembly", Produces: []string{"Light Tank", "Battle Tank", "Super Tank"}},
	{Name: "train_assembly", Bit: 1 << 6, Display: "Train Assembly", Produces: []string{"Locomotive", "Train Car", "Armoured Train"}},
	{Name: "refuel", Bit: 1 << 7, Display: "Refuelling"},
	{Name: "repair", Bit: 1 << 8, Display: "Repair Station"},
})
