package recommend

import "fmt"

// FallbackText returns a static answer used when every completion backend is
// unreachable. Callers flag the result so clients can tell it apart from a
// model-generated one.
func FallbackText(query string) string {
	return fmt.Sprintf(`**Alternative Medicines for %q:**

**Note**: Our recommendation system is temporarily unavailable. Here are general guidelines:

**Finding Alternatives:**
1. **Generic Alternatives**: Look for medicines with the same active ingredients
2. **Same Therapeutic Class**: Consult medicines in the same category
3. **Pharmacist Consultation**: Visit your local pharmacy for recommendations
4. **Doctor Consultation**: Always consult your healthcare provider for prescription alternatives

**General Tips:**
- Check the active ingredients on medicine labels
- Compare dosage strengths
- Consider brand vs generic options
- Verify with healthcare professionals

**Important**: This is a basic response due to system maintenance. For accurate medical advice, please consult healthcare professionals.
`, query)
}
