package generate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Feature names. Used as cache fingerprint prefixes, usage event labels
// and API route segments.
const (
	FeatureIdeas    = "ideas"
	FeatureAnalysis = "analysis"
	FeatureBudget   = "budget"
	FeatureBOM      = "bom"
	FeatureTimeline = "timeline"
)

// LooseString decodes from either a JSON string or a JSON number. Model
// output is inconsistent about quoting values like costs and quantities.
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = LooseString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("value %s is neither string nor number", data)
	}
	*s = LooseString(num.String())
	return nil
}

// amountValue parses a "$1,000"-style money string into a whole number.
// Non-numeric characters are stripped; unparseable values count as 0.
func amountValue(s LooseString) int {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, string(s))
	if cleaned == "" {
		return 0
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return n
}

// --- ideas ---

// IdeasInput is the founder profile the idea generator works from.
type IdeasInput struct {
	Budget           string `json:"budget"`
	TimeAvailability string `json:"timeAvailability"`
	Skills           string `json:"skills"`
	Interests        string `json:"interests"`
	Location         string `json:"location"`
	AdditionalInfo   string `json:"additionalInfo"`
}

// Idea is one generated business idea.
type Idea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Investment  string `json:"investment"`
	Timeframe   string `json:"timeframe"`
	Difficulty  string `json:"difficulty"` // Easy, Medium or Hard
}

// IdeasResult is the idea generator output plus provenance flags.
type IdeasResult struct {
	Ideas     []Idea `json:"ideas"`
	Fallback  bool   `json:"fallback"`
	FromCache bool   `json:"fromCache"`
	ModelUsed string `json:"modelUsed,omitempty"`
	Attempts  int    `json:"attempts,omitempty"`
}

// --- deep analysis ---

// AnalysisInput is the idea under analysis.
type AnalysisInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Investment  string `json:"investment"`
	Timeframe   string `json:"timeframe"`
	Difficulty  string `json:"difficulty"`
}

// BudgetLine is one row of the analysis budget breakdown.
type BudgetLine struct {
	Category string      `json:"category"`
	Amount   LooseString `json:"amount"`
	Type     string      `json:"type"`
}

// AnalysisBudget is the budget section of a deep analysis.
type AnalysisBudget struct {
	Breakdown []BudgetLine `json:"breakdown"`
	Total     LooseString  `json:"total"`
}

// Competitor is one entry of the market competitor list.
type Competitor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Strength    string `json:"strength"`
	Weakness    string `json:"weakness"`
}

// AnalysisMarket is the market section of a deep analysis.
type AnalysisMarket struct {
	Audience        string       `json:"audience"`
	Size            string       `json:"size"`
	Location        string       `json:"location"`
	Competitors     []Competitor `json:"competitors"`
	Differentiation string       `json:"differentiation"`
}

// MonthProjection is one month of the 12-month financial projection.
type MonthProjection struct {
	Month      string      `json:"month"`
	Revenue    LooseString `json:"revenue"`
	Expenses   LooseString `json:"expenses"`
	ProfitLoss LooseString `json:"profitLoss"`
}

// AnalysisForecast is the financial forecast section.
type AnalysisForecast struct {
	CustomerValue LooseString       `json:"customerValue"`
	MonthlyBurn   LooseString       `json:"monthlyBurn"`
	BreakEven     string            `json:"breakEvenMonth"`
	Projection    []MonthProjection `json:"12MonthProjection"`
}

// AnalysisMarketing is the marketing strategy section.
type AnalysisMarketing struct {
	FreeChannels []string `json:"freeChannels"`
	PaidChannels []string `json:"paidChannels"`
	Retention    []string `json:"retention"`
}

// AnalysisLegal is the legal and compliance section.
type AnalysisLegal struct {
	BusinessRegistration string `json:"businessRegistration"`
	TaxObligations       string `json:"taxObligations"`
	Privacy              string `json:"privacy"`
	Other                string `json:"other"`
}

// BOMEntry is one line of the analysis bill of materials.
type BOMEntry struct {
	Item    string      `json:"item"`
	Purpose string      `json:"purpose"`
	Cost    LooseString `json:"cost"`
	Type    string      `json:"type"`
}

// TimelinePhase is one row of the analysis launch timeline.
type TimelinePhase struct {
	WeekRange string `json:"weekRange"`
	Milestone string `json:"milestone"`
	Summary   string `json:"summary"`
}

// Analysis is the full deep-analysis report for one idea.
type Analysis struct {
	Opportunity     string            `json:"opportunity"`
	Pros            []string          `json:"pros"`
	Cons            []string          `json:"cons"`
	Budget          AnalysisBudget    `json:"budget"`
	BOM             []BOMEntry        `json:"bom"`
	Timeline        []TimelinePhase   `json:"timeline"`
	Market          AnalysisMarket    `json:"market"`
	Forecast        AnalysisForecast  `json:"forecast"`
	Marketing       AnalysisMarketing `json:"marketing"`
	Legal           AnalysisLegal     `json:"legal"`
	Recommendations []string          `json:"recommendations"`
}

// AnalysisResult is the deep-analysis output. Missing lists required
// sections the model left empty so the caller can surface gaps instead
// of rendering blanks.
type AnalysisResult struct {
	Analysis  Analysis `json:"analysis"`
	Missing   []string `json:"missing,omitempty"`
	FromCache bool     `json:"fromCache"`
	ModelUsed string   `json:"modelUsed,omitempty"`
	Attempts  int      `json:"attempts,omitempty"`
}

// --- budget planner ---

// BudgetInput describes the business the budget is planned for.
type BudgetInput struct {
	BusinessType    string `json:"businessType"`
	ExpectedRevenue string `json:"expectedRevenue"`
	Timeframe       string `json:"timeframe"`
	Location        string `json:"location"`
	TeamSize        string `json:"teamSize"`
}

// BudgetItem is one budget line. Type is startup, monthly or yearly.
type BudgetItem struct {
	Category string      `json:"category"`
	Amount   LooseString `json:"amount"`
	Type     string      `json:"type"`
}

// BudgetResult is the planner output with per-type totals.
type BudgetResult struct {
	Items        []BudgetItem `json:"items"`
	StartupCosts int          `json:"startupCosts"`
	MonthlyCosts int          `json:"monthlyCosts"`
	YearlyCosts  int          `json:"yearlyCosts"`
	Fallback     bool         `json:"fallback"`
	FromCache    bool         `json:"fromCache"`
	ModelUsed    string       `json:"modelUsed,omitempty"`
	Attempts     int          `json:"attempts,omitempty"`
}

// --- bill of materials ---

// BOMInput describes the product the bill of materials is generated for.
type BOMInput struct {
	ProductType         string `json:"productType"`
	ProductionVolume    string `json:"productionVolume"`
	QualityLevel        string `json:"qualityLevel"`
	Budget              string `json:"budget"`
	Timeline            string `json:"timeline"`
	SpecialRequirements string `json:"specialRequirements"`
}

// BOMItem is one material line within a category.
type BOMItem struct {
	Name     string      `json:"name"`
	Quantity LooseString `json:"quantity"`
	Supplier string      `json:"supplier"`
	Cost     LooseString `json:"cost"`
	LeadTime LooseString `json:"lead_time"`
	Priority string      `json:"priority"` // High, Medium or Low
}

// BOMCategory groups material lines by category.
type BOMCategory struct {
	Category string    `json:"category"`
	Items    []BOMItem `json:"items"`
}

// BOMResult is the bill-of-materials output with the summed cost.
type BOMResult struct {
	Categories []BOMCategory `json:"categories"`
	TotalCost  int           `json:"totalCost"`
	Fallback   bool          `json:"fallback"`
	FromCache  bool          `json:"fromCache"`
	ModelUsed  string        `json:"modelUsed,omitempty"`
	Attempts   int           `json:"attempts,omitempty"`
}

// --- timeline ---

// TimelineInput describes the project the milestones are planned for.
type TimelineInput struct {
	ProjectName      string `json:"projectName"`
	ProjectType      string `json:"projectType"`
	StartDate        string `json:"startDate"`
	TargetLaunchDate string `json:"targetLaunchDate"`
	Budget           string `json:"budget"`
	TeamSize         string `json:"teamSize"`
	KeyFeatures      string `json:"keyFeatures"`
}

// Milestone is one planned project milestone.
type Milestone struct {
	ID             LooseString `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Deadline       string      `json:"deadline"` // YYYY-MM-DD
	Status         string      `json:"status"`   // pending, in-progress, completed or overdue
	Priority       string      `json:"priority"` // low, medium or high
	EstimatedHours LooseString `json:"estimatedHours"`
}

// TimelineResult is the timeline assistant output.
type TimelineResult struct {
	Milestones []Milestone `json:"milestones"`
	Fallback   bool        `json:"fallback"`
	FromCache  bool        `json:"fromCache"`
	ModelUsed  string      `json:"modelUsed,omitempty"`
	Attempts   int         `json:"attempts,omitempty"`
}
