package openai

const maxSnippet = 4000

func buildSummarySystemPrompt(languageHint string) string {
	base := `You are a document analyst.
Return strict JSON object with keys:
summary (string, at most 3 sentences), key_insights (array of short strings).
No markdown, no extra keys.`
	switch languageHint {
	case "ml":
		return base + "\nWrite the summary in Malayalam."
	case "mixed":
		return base + "\nWrite the summary in the dominant language of the document."
	default:
		return base
	}
}

const classifySystemPrompt = `You are a document classifier.
Return strict JSON object with keys:
category (string, one lowercase word), confidence (number from 0 to 1), tags (array of lowercase strings).
No markdown, no extra keys.`

func snippet(text string) string {
	if len(text) > maxSnippet {
		return text[:maxSnippet]
	}
	return text
}
