package recommend

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/theraswitchrx/backend/internal/entity"
)

const systemPrompt = `You are a professional pharmaceutical information assistant with ` +
	`expertise in medicine alternatives and generic drug recommendations. This information ` +
	`is for educational purposes only, patients must always consult a qualified healthcare ` +
	`provider before changing medications. Answer strictly from the provided database ` +
	`context. If specific information is not available in the context, state "Information ` +
	`not available in the database" and never invent medical information.`

const generalPromptText = `Using the provided context, deliver a comprehensive response to
the user's query about medicines.

For medicine alternative queries, provide:
1. Primary Recommendation: the most suitable alternative based on the same salt
   composition, similar therapeutic effect, price and availability.
2. Additional Options (2-3 alternatives) with medicine name, manufacturer, salt
   composition, price in Rupees, and why each is a suitable alternative.
3. Important Information: notable differences in formulation, price variations, and
   relevant side effects or interactions if mentioned.

Use clear headers and bullet points, include medicine names in **bold**, and keep
explanations concise but informative.

CONTEXT:
{{.Context}}

USER QUERY:
{{.Question}}

PROFESSIONAL RESPONSE:`

const searchPromptText = `Based on the provided pharmaceutical database context, address
the user's query with precision.

For each recommended medicine provide the generic and brand names, active ingredients,
manufacturer, and current price in Rupees. When suggesting alternatives distinguish
bioequivalent options (same active ingredient) from therapeutic alternatives (different
ingredient, same effect) and compare cost-effectiveness. Include common side effects,
interactions and precautions when available.

Structure the response as: direct answer to the query, detailed medicine information,
alternative options ranked by suitability, safety considerations, and a short summary.
If information is unavailable, state "Data not available" rather than speculating.

DATABASE CONTEXT:
{{.Context}}

PATIENT QUERY:
{{.Question}}

EVIDENCE-BASED RESPONSE:`

const pricePromptText = `You are analyzing medicine prices to help the user find
cost-effective alternatives while maintaining therapeutic efficacy.

Provide a cost breakdown of the original medicine (name, price in Rupees, composition),
then list alternative options ranked by cost-effectiveness showing for each the medicine
name, price, savings amount and percentage, and whether the composition is the same.
Close with a recommendation based on maximum cost savings, equivalent therapeutic effect
and availability.

Context Data:
{{.Context}}

User's Price Query:
{{.Question}}

Detailed Price Analysis:`

const compositionPromptText = `Analyze the medicine database context to find all
medications containing the specified active ingredients or salt composition.

Describe the active ingredient profile, then list the available formulations containing
this composition with name, price in Rupees and manufacturer, separating premium brands
from generic options. Give the price range, the most affordable option and a best value
recommendation.

Medical Context:
{{.Context}}

Composition Query:
{{.Question}}

Comprehensive Analysis:`

var promptTemplates = map[QueryType]*template.Template{
	QueryTypeGeneral:     template.Must(template.New("general").Parse(generalPromptText)),
	QueryTypeSearch:      template.Must(template.New("search").Parse(searchPromptText)),
	QueryTypePrice:       template.Must(template.New("price").Parse(pricePromptText)),
	QueryTypeComposition: template.Must(template.New("composition").Parse(compositionPromptText)),
}

type promptData struct {
	Context  string
	Question string
}

func renderPrompt(queryType QueryType, dbContext, question string) (string, error) {
	tmpl, ok := promptTemplates[queryType]
	if !ok {
		tmpl = promptTemplates[QueryTypeGeneral]
	}

	var sb strings.Builder
	err := tmpl.Execute(&sb, promptData{Context: dbContext, Question: question})
	if err != nil {
		return "", err
	}

	return sb.String(), nil
}

// renderContext flattens matched records into delimited entries so the model
// can only cite what the database actually holds.
func renderContext(medicines []entity.Medicine) string {
	if len(medicines) == 0 {
		return "No matching records found in the database."
	}

	entries := make([]string, 0, len(medicines))
	for _, m := range medicines {
		entries = append(entries, fmt.Sprintf(
			"DATABASE_ENTRY_START | Medicine Name: %s | Salt Composition: %s | "+
				"Description: %s | Manufacturer: %s | Price: Rs.%.2f | "+
				"Alternative Medicines: %s | Side Effects: %s | DATABASE_ENTRY_END",
			m.Name, m.SaltComposition, m.Description, m.Manufacturer,
			m.Price, m.Alternatives, m.SideEffects,
		))
	}

	return strings.Join(entries, "\n")
}
