package itinerary

// DemoDestination and friends describe the bundled example trip used to
// seed a first itinerary without any AI call.
const (
	DemoDestination = "Taipei"
	DemoStartDate   = "2024-12-18"
	DemoEndDate     = "2024-12-21"
	DemoTitle       = "Taipei 4-Day Food Tour"
)

// DemoDays returns the bundled Taipei example itinerary. Identifiers are
// re-issued on every call so loading the demo twice never collides.
func DemoDays() []Day {
	days := []Day{
		{
			DayID: "day-1", Title: "Day 1 Zhongshan → Huashan → Xinyi", Date: "2024-12-18",
			Places: []Place{
				{Name: "CX564 HKG→TPE", Lat: 25.0797, Lng: 121.2342, Remarks: "08:30 HKG → 10:15 TPE", Type: TypeFlight, Time: "08:30"},
				{Name: "Hotel Mvsa", Lat: 25.0485, Lng: 121.5360, Remarks: "Check-in / luggage drop", Type: TypeHotel, Time: "12:15-13:00"},
				{Name: "Huashan 1914 Creative Park", Lat: 25.0441, Lng: 121.5293, Remarks: "Exhibitions and shops", Type: TypeActivity, Time: "13:30-15:30"},
				{Name: "Simple Kaffa", Lat: 25.0445, Lng: 121.5290, Remarks: "Huashan flagship (4.7)", Type: TypeActivity, Time: "15:45-16:30"},
				{Name: "Tonghua Night Market", Lat: 25.0305, Lng: 121.5540, Remarks: "Linjiang street food", Type: TypeActivity, Time: "19:30-22:00"},
			},
		},
		{
			DayID: "day-2", Title: "Day 2 Beitou Hot Springs", Date: "2024-12-19",
			Places: []Place{
				{Name: "Metro to Xinbeitou", Lat: 25.1369, Lng: 121.5064, Remarks: "Red line, about 40 min", Type: TypeActivity, Time: "10:30-11:10"},
				{Name: "Grand View Resort Beitou", Lat: 25.1360, Lng: 121.5150, Remarks: "Check-in / luggage drop", Type: TypeHotel, Time: "11:15"},
				{Name: "Thermal Valley", Lat: 25.1380, Lng: 121.5115, Remarks: "Geothermal springs", Type: TypeActivity, Time: "11:45"},
				{Name: "Private hot spring bath", Lat: 25.1360, Lng: 121.5150, Remarks: "3 hours", Type: TypeActivity, Time: "14:00-17:30"},
			},
		},
		{
			DayID: "day-3", Title: "Day 3 Ximending", Date: "2024-12-20",
			Places: []Place{
				{Name: "Roaders Plus Hotel", Lat: 25.0450, Lng: 121.5120, Remarks: "Near main station, luggage drop", Type: TypeHotel, Time: "11:45"},
				{Name: "Ximending District", Lat: 25.0425, Lng: 121.5080, Remarks: "Donki / Eslite", Type: TypeActivity, Time: "14:30-17:00"},
				{Name: "Nanjichang Night Market", Lat: 25.0295, Lng: 121.5050, Remarks: "Michelin street food picks", Type: TypeActivity, Time: "17:30-21:00"},
			},
		},
		{
			DayID: "day-4", Title: "Day 4 Shopping and Departure", Date: "2024-12-21",
			Places: []Place{
				{Name: "Fong Da Coffee", Lat: 25.0420, Lng: 121.5060, Remarks: "Walnut cookies (4.6)", Type: TypeActivity, Time: "10:00"},
				{Name: "Chifeng Street", Lat: 25.0550, Lng: 121.5200, Remarks: "Indie shops near Zhongshan", Type: TypeActivity, Time: "13:00-14:30"},
				{Name: "Dadaocheng Wharf", Lat: 25.0570, Lng: 121.5070, Remarks: "Container market", Type: TypeActivity, Time: "14:45-15:45"},
				{Name: "CX565 TPE→HKG", Lat: 25.0797, Lng: 121.2342, Remarks: "19:30 TPE → 21:30 HKG", Type: TypeFlight, Time: "19:30"},
			},
		},
	}
	return Normalize(days)
}
