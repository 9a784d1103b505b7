package riasec

import "fmt"

// DefaultInstrumentVersion identifies the built-in 96-item questionnaire.
const DefaultInstrumentVersion = "riasec-96-v1"

var defaultStatements = map[Dimension][]string{
	Realistic: {
		"Repair a bicycle or motorbike",
		"Build furniture from wood",
		"Work on a farm growing crops",
		"Operate heavy machinery",
		"Install electrical wiring in a house",
		"Fix a leaking water pipe",
		"Assemble electronic parts",
		"Work outdoors with tools",
		"Drive and maintain vehicles",
		"Lay bricks for a building",
		"Take care of livestock",
		"Service an engine",
		"Set up solar panels",
		"Work in a factory production line",
		"Use a welding machine",
		"Plant and look after trees",
	},
	Investigative: {
		"Carry out a science experiment",
		"Study how the human body works",
		"Solve difficult mathematics problems",
		"Find out why a machine stopped working",
		"Read about new discoveries in science",
		"Analyse data to find patterns",
		"Study the stars and planets",
		"Test water or soil samples in a laboratory",
		"Write a computer program to solve a problem",
		"Research causes of a disease",
		"Investigate how chemicals react",
		"Study rocks and minerals",
		"Work out how an invention works",
		"Examine cells under a microscope",
		"Develop a theory to explain something",
		"Study weather and climate",
	},
	Artistic: {
		"Draw or paint pictures",
		"Write stories or poems",
		"Act in a play",
		"Play a musical instrument",
		"Design clothes",
		"Take photographs",
		"Compose songs",
		"Decorate a room",
		"Dance in a performance",
		"Design posters or logos",
		"Make a short film",
		"Write articles for a magazine",
		"Sculpt with clay",
		"Sing in a choir or band",
		"Design the look of a website",
		"Create animations",
	},
	Social: {
		"Teach children",
		"Help people with personal problems",
		"Care for sick people",
		"Volunteer in the community",
		"Coach a sports team",
		"Work with people with disabilities",
		"Counsel students about careers",
		"Organise a charity event",
		"Explain things to classmates",
		"Look after elderly people",
		"Help resolve conflicts between friends",
		"Lead a youth group",
		"Give first aid",
		"Train new workers",
		"Work in a hospital ward",
		"Welcome and guide visitors",
	},
	Enterprising: {
		"Start my own business",
		"Sell products to customers",
		"Lead a team to reach a goal",
		"Persuade people to support an idea",
		"Manage a shop",
		"Give a speech to a large audience",
		"Negotiate a deal",
		"Run for student leadership",
		"Market a new product",
		"Plan a business budget",
		"Argue a case in court",
		"Manage other people's work",
		"Raise money for a project",
		"Represent my school in a debate",
		"Organise a trade fair",
		"Make decisions that affect many people",
	},
	Conventional: {
		"Keep accurate records",
		"Work with numbers in a spreadsheet",
		"File and organise documents",
		"Check reports for errors",
		"Follow clear procedures",
		"Prepare a payroll",
		"Keep a stock inventory",
		"Type letters and reports",
		"Calculate taxes",
		"Manage a schedule or timetable",
		"Enter data into a computer system",
		"Balance accounts",
		"Proofread documents",
		"Work in a bank",
		"Organise a library catalogue",
		"Keep minutes of a meeting",
	},
}

// DefaultItems builds the 96-item instrument; IDs run R01..R16 through C01..C16.
func DefaultItems() []Item {
	items := make([]Item, 0, 96)
	for _, d := range Dimensions {
		for i, text := range defaultStatements[d] {
			items = append(items, Item{
				ID:        fmt.Sprintf("%s%02d", d, i+1),
				Dimension: d,
				Text:      text,
			})
		}
	}
	return items
}

// DefaultQuestionnaire returns the built-in instrument.
func DefaultQuestionnaire() *Questionnaire {
	q, err := NewQuestionnaire(DefaultInstrumentVersion, DefaultItems())
	if err != nil {
		panic(fmt.Sprintf("riasec: built-in questionnaire invalid: %v", err))
	}
	return q
}

// DefaultCareers is the built-in career catalog used when none is configured.
func DefaultCareers() []Career {
	out := make([]Career, len(defaultCareers))
	copy(out, defaultCareers)
	return out
}

var defaultCareers = []Career{
	{Name: "Civil Engineer", Code: "RIC", Pathway: "STEM"},
	{Name: "Electrical Engineer", Code: "RIE", Pathway: "STEM"},
	{Name: "Mechanical Engineer", Code: "RIC", Pathway: "STEM"},
	{Name: "Agricultural Officer", Code: "RIS", Pathway: "STEM"},
	{Name: "Veterinary Surgeon", Code: "IRS", Pathway: "STEM"},
	{Name: "Electrician", Code: "RCI", Pathway: "Technical and Vocational"},
	{Name: "Automotive Technician", Code: "RIC", Pathway: "Technical and Vocational"},
	{Name: "Building Contractor", Code: "REC", Pathway: "Technical and Vocational"},
	{Name: "Pilot", Code: "RIE", Pathway: "STEM"},
	{Name: "Medical Doctor", Code: "ISR", Pathway: "STEM"},
	{Name: "Pharmacist", Code: "ICS", Pathway: "STEM"},
	{Name: "Software Engineer", Code: "IRC", Pathway: "STEM"},
	{Name: "Data Scientist", Code: "ICR", Pathway: "STEM"},
	{Name: "Laboratory Technologist", Code: "IRC", Pathway: "STEM"},
	{Name: "Actuary", Code: "ICE", Pathway: "STEM"},
	{Name: "Geologist", Code: "IRA", Pathway: "STEM"},
	{Name: "Architect", Code: "AIR", Pathway: "Arts and Sports Science"},
	{Name: "Graphic Designer", Code: "AER", Pathway: "Arts and Sports Science"},
	{Name: "Journalist", Code: "AES", Pathway: "Social Sciences"},
	{Name: "Musician", Code: "AES", Pathway: "Arts and Sports Science"},
	{Name: "Fashion Designer", Code: "AER", Pathway: "Arts and Sports Science"},
	{Name: "Film Producer", Code: "AEI", Pathway: "Arts and Sports Science"},
	{Name: "Interior Designer", Code: "AER", Pathway: "Arts and Sports Science"},
	{Name: "Teacher", Code: "SAE", Pathway: "Social Sciences"},
	{Name: "Nurse", Code: "SIR", Pathway: "STEM"},
	{Name: "Counselling Psychologist", Code: "SIA", Pathway: "Social Sciences"},
	{Name: "Social Worker", Code: "SEA", Pathway: "Social Sciences"},
	{Name: "Physiotherapist", Code: "SRI", Pathway: "STEM"},
	{Name: "Clinical Officer", Code: "SIR", Pathway: "STEM"},
	{Name: "Sports Coach", Code: "SER", Pathway: "Arts and Sports Science"},
	{Name: "Lawyer", Code: "ESA", Pathway: "Social Sciences"},
	{Name: "Entrepreneur", Code: "ESC", Pathway: "Social Sciences"},
	{Name: "Marketing Manager", Code: "EAS", Pathway: "Social Sciences"},
	{Name: "Hotel Manager", Code: "ESC", Pathway: "Social Sciences"},
	{Name: "Diplomat", Code: "ESA", Pathway: "Social Sciences"},
	{Name: "Sales Representative", Code: "ESC", Pathway: "Social Sciences"},
	{Name: "Accountant", Code: "CEI", Pathway: "Social Sciences"},
	{Name: "Banker", Code: "CES", Pathway: "Social Sciences"},
	{Name: "Procurement Officer", Code: "CEI", Pathway: "Social Sciences"},
	{Name: "Records Manager", Code: "CSE", Pathway: "Social Sciences"},
	{Name: "Statistician", Code: "CIE", Pathway: "STEM"},
	{Name: "Librarian", Code: "CSA", Pathway: "Social Sciences"},
}
