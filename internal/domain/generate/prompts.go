package generate

import (
	"fmt"
	"strings"
)

// Candidate model lists per feature. The idea generator rotates through
// three free-tier models; the other features run on the default model.
var (
	ideaModels = []string{
		"mistralai/mistral-7b-instruct:free",
		"huggingfaceh4/zephyr-7b-beta:free",
		"openchat/openchat-7b:free",
	}
	analysisModels = []string{"deepseek/deepseek-r1:free"}
	defaultModels  = []string{"deepseek/deepseek-r1-0528-qwen3-8b:free"}
)

func orNotSpecified(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Not specified"
	}
	return v
}

func buildIdeasPrompt(in IdeasInput) string {
	b := strings.Builder{}
	b.WriteString("You are a strict business startup idea AI. Your task is to generate exactly 3 realistic, unsaturated, and budget-appropriate business ideas for a user. Each idea must solve a real, specific problem faced by people in the user's area or niche.\n\n")
	b.WriteString("Do NOT include generic, overused, or saturated ideas like dropshipping, print-on-demand, crypto, or affiliate blogs.\n\n")
	b.WriteString("All ideas must be feasible within the user's actual budget, time availability, and skills. Never exceed the budget; keep total costs under it.\n\n")
	b.WriteString("Return a valid JSON array with 3 objects, each including:\n")
	b.WriteString("- \"title\" (string): short business name\n")
	b.WriteString("- \"description\" (string): a 2-3 sentence overview that explains what it does, what problem it solves, and who it's for\n")
	b.WriteString("- \"investment\" (string): total cost under the user's budget (e.g., \"$1,500\")\n")
	b.WriteString("- \"timeframe\" (string): time needed to launch (e.g., \"3 months\")\n")
	b.WriteString("- \"difficulty\" (string): one of \"Easy\", \"Medium\", or \"Hard\"\n\n")
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Budget: %s\n", orNotSpecified(in.Budget))
	fmt.Fprintf(&b, "- Time Availability: %s\n", orNotSpecified(in.TimeAvailability))
	fmt.Fprintf(&b, "- Skills: %s\n", orNotSpecified(in.Skills))
	fmt.Fprintf(&b, "- Interests: %s\n", orNotSpecified(in.Interests))
	fmt.Fprintf(&b, "- Location: %s\n", orNotSpecified(in.Location))
	fmt.Fprintf(&b, "- Additional Info: %s\n\n", orNotSpecified(in.AdditionalInfo))
	b.WriteString("Return ONLY the JSON array. Do not include any explanation, headings, or additional text.\n")
	b.WriteString("Example format:\n")
	b.WriteString(`[
  {
    "title": "Affordable Pet Portraits",
    "description": "A local service offering hand-drawn or digitally illustrated pet portraits targeted to pet lovers. Solves the problem of expensive artwork for animal owners.",
    "investment": "$900",
    "timeframe": "1 month",
    "difficulty": "Easy"
  },
  ...
]`)
	return b.String()
}

func buildAnalysisPrompt(in AnalysisInput) string {
	b := strings.Builder{}
	b.WriteString("You are an AI business analyst.\n\n")
	b.WriteString("Your ONLY task is to output a valid JSON object. You MUST return only a pure, strict JSON object without any markdown, formatting, commentary, or extra text. No headings. No code fences. No explanations. No intro. No wrapping. No quotes around the entire object. No text before or after the JSON. No exceptions.\n\n")
	b.WriteString("If you cannot fill a value, use an empty string (\"\") or empty array ([]). Use correct syntax. Use double quotes for all keys and string values. Do not include comments.\n\n")
	b.WriteString("The following is a business idea to analyze:\n\n")
	fmt.Fprintf(&b, "Title: %s\n", in.Title)
	fmt.Fprintf(&b, "Description: %s\n", in.Description)
	fmt.Fprintf(&b, "Investment: %s\n", in.Investment)
	fmt.Fprintf(&b, "Timeframe: %s\n", in.Timeframe)
	fmt.Fprintf(&b, "Difficulty: %s\n\n", in.Difficulty)
	b.WriteString("Your output MUST follow this JSON structure:\n\n")
	fmt.Fprintf(&b, `{
  "opportunity": "Summary paragraph",
  "pros": ["Pro 1", "Pro 2"],
  "cons": ["Con 1", "Con 2"],
  "budget": {
    "breakdown": [
      { "category": "Software", "amount": 500, "type": "One-time" },
      { "category": "Legal", "amount": 300, "type": "One-time" },
      { "category": "Contingency", "amount": 200, "type": "Buffer" }
    ],
    "total": %q
  },
  "billOfMaterials": [
    { "item": "Tool name", "purpose": "What it does", "cost": 99, "type": "Monthly" }
  ],
  "timeline": [
    { "weekRange": "Week 1-2", "milestone": "Planning", "summary": "Define strategy" },
    { "weekRange": "Week 3-4", "milestone": "Prototype", "summary": "Build MVP" }
  ],
  "market": {
    "audience": "Target market",
    "size": "Market size in dollars",
    "location": "Local / National / Global",
    "competitors": [
      { "name": "Competitor", "description": "Their product", "strength": "Advantage", "weakness": "Flaw" }
    ],
    "differentiation": "How this idea stands out"
  },
  "forecast": {
    "customerValue": 20,
    "monthlyBurn": 1000,
    "breakEvenMonth": "Month 6",
    "12MonthProjection": [
      { "month": "Month 1", "revenue": 0, "expenses": 1000, "profitLoss": -1000 },
      { "month": "Month 2", "revenue": 200, "expenses": 1000, "profitLoss": -800 }
    ]
  },
  "marketing": {
    "freeChannels": ["Reddit", "TikTok"],
    "paidChannels": ["Meta Ads", "Google Ads"],
    "retention": ["Email", "Referral"]
  },
  "legal": {
    "businessRegistration": "Details",
    "taxObligations": "Details",
    "privacy": "Data concerns",
    "other": "IP, contracts"
  },
  "recommendations": [
    "Start with...", "Avoid...", "Double your success by..."
  ]
}`, in.Investment)
	b.WriteString("\n\nREMINDER: Output ONLY the raw JSON object. No intro. No text. No notes.")
	return b.String()
}

func buildBudgetPrompt(in BudgetInput) string {
	return fmt.Sprintf(
		"Generate a realistic business budget breakdown as a JSON array of objects with these fields: category, amount (number), type (startup|monthly|yearly). Use the following info:\n- Business Type: %s\n- Expected Revenue: %s\n- Launch Timeframe: %s\n- Location: %s\n- Team Size: %s\nRespond ONLY with the JSON array, no explanation.",
		in.BusinessType, in.ExpectedRevenue, in.Timeframe, in.Location, in.TeamSize,
	)
}

func buildBOMPrompt(in BOMInput) string {
	return fmt.Sprintf(
		"Generate a detailed bill of materials (BOM) for a new product as a JSON array of objects. Each object should have: category (string), items (array of objects with fields: name, quantity, supplier, cost, lead_time, priority [High|Medium|Low]). Use the following info:\n- Product Type: %s\n- Production Volume: %s\n- Quality Level: %s\n- Budget: %s\n- Timeline: %s\n- Special Requirements: %s\nRespond ONLY with the JSON array, no explanation.",
		in.ProductType, in.ProductionVolume, in.QualityLevel, in.Budget, in.Timeline, in.SpecialRequirements,
	)
}

func buildTimelinePrompt(in TimelineInput) string {
	return fmt.Sprintf(
		"Given the following project details, generate a JSON array of 6-10 realistic startup milestones. Each milestone should have: id, title, description, deadline (YYYY-MM-DD), status (pending|in-progress|completed|overdue), priority (low|medium|high), and estimatedHours.\nProject: %s\nType: %s\nStart: %s\nLaunch: %s\nBudget: %s\nTeam: %s\nFeatures: %s",
		in.ProjectName, in.ProjectType, in.StartDate, in.TargetLaunchDate, in.Budget, in.TeamSize, in.KeyFeatures,
	)
}
