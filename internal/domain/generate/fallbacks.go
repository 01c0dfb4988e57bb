package generate

// Static payloads served when every candidate model has been exhausted or
// the completion could not be parsed. Deep analysis deliberately has none:
// an invented analysis is worse than an error.

func fallbackIdeas() []Idea {
	return []Idea{
		{
			Title:       "Remote Team Collaboration App",
			Description: "A platform for distributed teams to manage projects, chat, and share files securely.",
			Investment:  "$2,000",
			Timeframe:   "2 months",
			Difficulty:  "Medium",
		},
		{
			Title:       "Healthy Meal Prep Service",
			Description: "Subscription-based healthy meal kits delivered weekly, tailored to dietary needs.",
			Investment:  "$5,000",
			Timeframe:   "3 months",
			Difficulty:  "Easy",
		},
		{
			Title:       "Eco-Friendly Packaging Startup",
			Description: "Manufacture and sell biodegradable packaging to small businesses and e-commerce stores.",
			Investment:  "$8,000",
			Timeframe:   "4 months",
			Difficulty:  "Hard",
		},
	}
}

func fallbackBudget() []BudgetItem {
	return []BudgetItem{
		{Category: "Product Development", Amount: "4000", Type: "startup"},
		{Category: "Marketing", Amount: "600", Type: "monthly"},
		{Category: "Cloud Hosting", Amount: "120", Type: "monthly"},
	}
}

func fallbackBOM() []BOMCategory {
	return []BOMCategory{
		{
			Category: "Electronics",
			Items: []BOMItem{
				{Name: "Microcontroller", Quantity: "100", Supplier: "DigiKey", Cost: "$300", LeadTime: "2 weeks", Priority: "High"},
				{Name: "Sensors", Quantity: "200", Supplier: "Mouser", Cost: "$400", LeadTime: "3 weeks", Priority: "Medium"},
			},
		},
		{
			Category: "Packaging",
			Items: []BOMItem{
				{Name: "Boxes", Quantity: "500", Supplier: "Uline", Cost: "$150", LeadTime: "1 week", Priority: "Low"},
			},
		},
		{
			Category: "Assembly",
			Items: []BOMItem{
				{Name: "Labor", Quantity: "50 hours", Supplier: "Local Shop", Cost: "$1000", LeadTime: "4 weeks", Priority: "High"},
			},
		},
	}
}

func fallbackMilestones() []Milestone {
	return []Milestone{
		{
			ID:             "1",
			Title:          "Market Research & Validation",
			Description:    "Conduct comprehensive market analysis, competitor research, and validate business concept with potential customers",
			Deadline:       "2024-02-15",
			Status:         "completed",
			Priority:       "high",
			EstimatedHours: "40",
		},
		{
			ID:             "2",
			Title:          "Business Plan Development",
			Description:    "Create detailed business plan including financial projections, marketing strategy, and operational framework",
			Deadline:       "2024-03-01",
			Status:         "in-progress",
			Priority:       "high",
			EstimatedHours: "60",
		},
		{
			ID:             "3",
			Title:          "MVP Development",
			Description:    "Build minimum viable product with core features to test with early adopters and gather feedback",
			Deadline:       "2024-04-15",
			Status:         "pending",
			Priority:       "high",
			EstimatedHours: "120",
		},
		{
			ID:             "4",
			Title:          "Brand Identity & Website",
			Description:    "Develop brand identity, logo, and professional website to establish online presence",
			Deadline:       "2024-03-30",
			Status:         "pending",
			Priority:       "medium",
			EstimatedHours: "35",
		},
		{
			ID:             "5",
			Title:          "Legal Setup & Compliance",
			Description:    "Register business, obtain necessary licenses, set up contracts and legal documentation",
			Deadline:       "2024-04-01",
			Status:         "pending",
			Priority:       "medium",
			EstimatedHours: "25",
		},
		{
			ID:             "6",
			Title:          "Beta Testing & Feedback",
			Description:    "Launch beta version with selected users, collect feedback, and iterate on product improvements",
			Deadline:       "2024-05-15",
			Status:         "pending",
			Priority:       "high",
			EstimatedHours: "50",
		},
		{
			ID:             "7",
			Title:          "Marketing Campaign Launch",
			Description:    "Execute comprehensive marketing campaign across multiple channels to drive awareness and acquisition",
			Deadline:       "2024-06-01",
			Status:         "pending",
			Priority:       "medium",
			EstimatedHours: "80",
		},
		{
			ID:             "8",
			Title:          "Official Product Launch",
			Description:    "Full product launch with all features, payment processing, and customer support systems in place",
			Deadline:       "2024-06-30",
			Status:         "pending",
			Priority:       "high",
			EstimatedHours: "40",
		},
	}
}
