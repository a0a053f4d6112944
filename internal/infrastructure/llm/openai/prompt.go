package openai

import (
	"strings"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
)

func buildSystemPrompt(taxonomy domain.Taxonomy) string {
	return "You classify financial whitepapers by intended audience and industry and provide a short summary.\n\n" +
		"Your primary task is to determine whether the document is intended for:\n" +
		"- Institutional investors\n" +
		"- Retail (general public) investors\n" +
		"- Or if the audience is truly unclear (Nondescript).\n\n" +
		"DEFINITIONS (INTENDED AUDIENCE):\n" +
		"Institutional:\n" +
		"- Intended for professional or sophisticated investors: pension funds, hedge funds, endowments, " +
		"foundations, banks, insurance companies, asset managers, institutional consultants, sovereign wealth funds, " +
		"corporate treasurers, etc.\n" +
		"- Common signals: fiduciary duty, funding ratios, ALM, risk budgeting, mandate guidelines, RFQs/RFPs, " +
		"benchmarks relative to institutional indices, regulatory capital, Solvency II, Basel, UCITS, complex " +
		"derivatives, factor models, tracking error, ex-ante risk, multi-asset portfolio construction, " +
		"liability-driven investing, overlays, optimization.\n" +
		"- Writing style: assumes strong finance knowledge, heavy jargon, equations, quantitative methods, " +
		"regulatory or policy detail, references to institutional asset allocation frameworks.\n\n" +
		"Retail:\n" +
		"- Intended for the general public or non-professional investors.\n" +
		"- Common signals: basic investor education, explainers of what a bond/ETF/stock is, budgeting, saving, " +
		"retirement basics, high-level product overviews, marketing to individuals, examples using everyday situations.\n" +
		"- Writing style: plain language, defines basic terms, focuses on concepts like diversification and risk " +
		"without deep math or institutional jargon.\n\n" +
		"Nondescript:\n" +
		"- Use ONLY when the audience is genuinely ambiguous and cannot reasonably be inferred.\n" +
		"- Do NOT overuse this; if the language is clearly technical and finance-heavy, prefer Institutional.\n\n" +
		"INDUSTRY:\n" +
		"Choose one primary industry from this list only:\n" +
		strings.Join(taxonomy.Industries, ", ") + "\n\n" +
		"OUTPUT FORMAT (STRICT JSON ONLY):\n" +
		"Respond ONLY with valid JSON in this exact structure, no extra text:\n" +
		"{\n" +
		"  \"title\": \"short inferred title\",\n" +
		"  \"audience\": \"Institutional\" | \"Retail\" | \"Nondescript\",\n" +
		"  \"audience_confidence\": integer 0-100,\n" +
		"  \"audience_rationale\": \"one or two sentences explaining why\",\n" +
		"  \"industry\": \"one industry from the list\",\n" +
		"  \"short_summary\": \"2-3 sentence summary aimed at a financially literate reader\"\n" +
		"}\n" +
		"Do NOT include comments, trailing commas, or any text before or after the JSON."
}

func buildUserPrompt(snippet string) string {
	return "Classify and summarize the following financial whitepaper text.\n\n" +
		"Remember:\n" +
		"- audience must be based on intended user: institutional vs retail vs nondescript.\n" +
		"- industry must be one of the allowed industries.\n" +
		"- audience_confidence is your confidence (0-100) in your audience choice.\n" +
		"- audience_rationale should concisely explain the reasoning.\n\n" +
		"Text:\n" + snippet
}
