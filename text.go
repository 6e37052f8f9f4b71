package main

import "github.com/iic-dev/portfolio/internal/gallery"

type TimelineEntry struct {
	Period string `json:"period"`
	Detail string `json:"detail"`
}

type SocialLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Content struct {
	Name         string            `json:"name"`
	AboutMe      string            `json:"aboutMe"`
	Highlights   []string          `json:"highlights"`
	PhotoCaption string            `json:"photoCaption"`
	Timeline     []TimelineEntry   `json:"timeline"`
	Skills       []string          `json:"skills"`
	IntroLines   []string          `json:"introLines"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Socials      []SocialLink      `json:"socials"`
	Projects     []gallery.Project `json:"projects"`
}

var (
	AboutMe = `Hi! My name is Ilie Ioan-Călin, a 4th year student at the Politehnica University of Bucharest,
	Faculty of Automatic Control and Computer Science, specializing in Systems Engineering. I have a deep
	passion for developing software applications and integrated solutions.`

	Highlights = []string{
		"Passionate about technology and its continuous evolution.",
		"Finding real satisfaction in seeing people happy when using the solutions I've developed, knowing they make life easier.",
		"Enjoy coordinating teams to deliver high-quality products on time.",
		"Built an internal Registru SSI app for ADR: on-prem, role-based access, documents flow and analytics.",
		"Developed multiple projects: a Real Estate platform (React & Node.js), an event organizer (Java Spring Boot), an automated retractable pergola etc.",
	}

	Timeline = []TimelineEntry{
		{
			Period: "2025 · Authority for Digitalization of Romania, Information Society Service (Summer Intern)",
			Detail: `Contributed to national digital transformation projects, including project management support
			for the Governmental Cloud, regulatory and cybersecurity analysis of banking dossiers, and the design and
			development of an internal on-prem registry app for SSI (React, Node.js, PostgreSQL).`,
		},
		{
			Period: "2025 · Sunwave Pharma (Data Analyst Trainee)",
			Detail: `Worked with MySQL and Power BI to build interactive dashboards and reports, aligning data
			insights with business objectives.`,
		},
		{
			Period: "2022–present · UNSTPB, Faculty of Automatic Control and Computer Science",
			Detail: `B.Sc. in Systems Engineering. Engaged in software and embedded projects such as an automated
			retractable pergola, a music visualizer, and multiple web applications.`,
		},
	}

	Skills = []string{
		"Project Management", "Public Policy", "e-Banking", "React", "JavaScript", "Node.js", "Express",
		"C/C++", "Java", "Python", "PostgreSQL", "MySQL", "Database Administration", "Power BI", "Linux", "Git",
	}

	IntroLines = []string{
		"Build it. Ship it. Make it matter.",
		"From idea to production, end-to-end.",
		"Ready when you are. Let's talk.",
	}

	Socials = []SocialLink{
		{Name: "LinkedIn", URL: "https://www.linkedin.com/in/ioan-calin-ilie-19a4552a9/"},
		{Name: "Instagram", URL: "https://www.instagram.com/calin.ilie/"},
		{Name: "GitHub", URL: "https://github.com/Calinnnnnnnnn"},
	}

	Projects = []gallery.Project{
		{
			ID:       "registru-ssi",
			Title:    "Internal Registry for ADR – SSI",
			Subtitle: "On-prem web app · RBAC · Analytics · Classified data",
			Image:    "projects/registru-ssi/home.png",
			Images: []string{
				"projects/registru-ssi/home.png",
				"projects/registru-ssi/login.png",
				"projects/registru-ssi/dashboard.png",
				"projects/registru-ssi/registru_intrari.png",
				"projects/registru-ssi/adaugare_intrare.png",
				"projects/registru-ssi/statistici.png",
			},
			Href:   "/#registru",
			Device: "laptop",
			Description: `Digitizes the registry workflow end-to-end: centralizes incoming and outgoing documents,
			assigns work to designated staff, tracks deadlines, and offers fast search with an activity dashboard.`,
			Tech:  []string{"React", "Node.js", "Express", "PostgreSQL", "Nginx", "bcrypt", "JWT", "Linux server"},
			Links: gallery.Links{Live: "/#registru"},
		},
		{
			ID:       "real-estate",
			Title:    "Real Estate Platform",
			Subtitle: "Listings · Auth · Advanced filters",
			Image:    "projects/real-estate/Intampinare.png",
			Images: []string{
				"projects/real-estate/Intampinare.png",
				"projects/real-estate/Home.png",
				"projects/real-estate/Home2.png",
				"projects/real-estate/Lista.png",
				"projects/real-estate/Statistici.png",
			},
			Href:   "/#real-estate",
			Device: "laptop",
			Description: `A platform for publishing, organizing and promoting property listings, with filtering,
			authentication and real-time listing updates.`,
			Tech:  []string{"React", "Node.js", "Express", "MySQL", "bcrypt", "JWT"},
			Links: gallery.Links{Live: "/#real-estate"},
		},
		{
			ID:       "events-organiser",
			Title:    "Events Organiser",
			Subtitle: "Plan & manage events · Tickets · Scheduling",
			Image:    "projects/events-organiser/AWJ1.png",
			Images: []string{
				"projects/events-organiser/AWJ1.png",
				"projects/events-organiser/AWJ2.png",
				"projects/events-organiser/AWJ6.png",
				"projects/events-organiser/AWJ5.png",
				"projects/events-organiser/AWJ4.png",
			},
			Href:   "/#events-organiser",
			Device: "laptop",
			Description: `Create, schedule and manage events with ticketing, attendee lists and reminders.
			Organizers send automatic notifications and monitor invitations from one dashboard.`,
			Tech:  []string{"Java", "Java SpringBoot", "MySQL", "bcrypt", "HTML", "CSS"},
			Links: gallery.Links{Live: "/#events-organiser"},
		},
		{
			ID:       "music-visualizer",
			Title:    "Music Visualizer",
			Subtitle: "Real-time audio analysis · WebGL animations",
			Image:    "projects/music-visualizer/Home.png",
			Href:     "/#music-visualizer",
			Device:   "laptop",
			Description: `Real-time spectrum and waveform visualizations driven by the Web Audio API and WebGL,
			from an uploaded file or the microphone.`,
			Tech:  []string{"Web Audio API", "Canvas/WebGL", "React", "Node.js", "Express", "Tailwind CSS"},
			Links: gallery.Links{Live: "/#music-visualizer"},
		},
	}
)

// siteContent assembles everything the page and /api/content render.
func siteContent() Content {
	return Content{
		Name:         "Ilie Ioan-Călin",
		AboutMe:      AboutMe,
		Highlights:   Highlights,
		PhotoCaption: "Bucharest · Palatul Victoria",
		Timeline:     Timeline,
		Skills:       Skills,
		IntroLines:   IntroLines,
		Email:        "ilieioancalin.2003@gmail.com",
		Phone:        "+40 731 192 530",
		Socials:      Socials,
		Projects:     Projects,
	}
}
