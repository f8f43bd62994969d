package service

import (
	"fmt"
	"strings"
	"text/template"
)

const feasibilityPrompt = `
### Financial Assistant Feasibility Study Prompt
**[Introduction]**
You are regarded as an expert financial assistant with specialized skills in conducting feasibility studies for various projects. I am currently exploring a new project initiative and need your expertise to assess its potential for success. Please carry out a detailed feasibility study to evaluate the viability of this proposed project. Your analysis should provide in-depth suggestions and consultations aimed at optimizing the project's success.
**[Objective]**
Conduct a comprehensive feasibility study that explores all relevant aspects of the proposed project. Your findings should help us make informed decisions regarding the project's potential and strategies for moving forward.
**[Request for Preliminary Questions]**
To ensure a thorough and accurate feasibility study, please develop a list of preliminary questions based on the project details I will provide. These questions should serve as a guide for our discussions and assist in collecting all necessary information needed for a comprehensive evaluation.
### Example of Preliminary Questions Required
Here is an outline of the type of questions that would guide our feasibility study. These questions are designed to delve into various critical aspects of the project:
- **Q1:** Who are the targeted customer segments?
- **Q2:** What is the target market?
- **Q3:** What is the specific problem that the project aims to solve?
- **Q4:** What is the proposed solution to this problem?
- **Q5:** What evidence supports the Problem-Solution fit?
- **Q6:** What is the unique value proposition of the project?
- **Q7:** What are the detailed product specifications?
- **Q8:** What evidence supports the Product-Market fit?
- **Q9:** Through which distribution channels will the product be marketed?
- **Q10:** What are the planned revenue streams and the sales strategy?
- **Q11:** How does the project position itself against competitors?
- **Q12:** What resources are required, and what is the plan for their acquisition?
- **Q13:** What is the detailed cost structure of the project?
- **Q14:** How will the project develop and capture value?
- **Q15:** What strategies will be implemented to develop, retain, and grow the customer base?
- **Q16:** What is the total investment cost of the project, and how will it be funded?
- **Q17:** How will you validate the business model?
- **Q18:** What is the Minimum Viable Business Product (MVBP)?
- **Q19:** What are the financial projections for the project?
- **Q20:** What is the evidence of the project's viability?
- **Q21:** What is the detailed implementation plan?
Write every question on its own line as "Q<number>: <question>" and add a short hint in parentheses when it helps the answer.
{{- if .Documents}}
**[Reference Documents]**
{{- range $i, $doc := .Documents}}
[Document {{inc $i}}]
{{$doc}}
{{- end}}
{{- end}}
**[Input Instructions]**
- **[INST] query Project: {{.Project}}**
- **Answer:** Based on the provided Project, enumerate the key questions we should address to advance the feasibility study.
**[End of Instruction]**
`

// PromptData fills the feasibility prompt.
type PromptData struct {
	Project   string
	Documents []string
}

type PromptBuilder struct {
	tmpl *template.Template
}

func NewPromptBuilder() *PromptBuilder {
	tmpl := template.Must(template.New("feasibility").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		Parse(feasibilityPrompt))
	return &PromptBuilder{tmpl: tmpl}
}

func (b *PromptBuilder) Build(data PromptData) (string, error) {
	var sb strings.Builder
	if err := b.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return sb.String(), nil
}
