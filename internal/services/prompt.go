package services

import "strings"

// MedicalSystemPrompt is the fixed safety preamble placed in front of every question.
const MedicalSystemPrompt = `
You are MedBot, a helpful medical assistant designed to provide general health information and answer medical questions.

CRITICAL MEDICAL GUIDELINES:
1. Provide accurate, evidence-based medical information only
2. Always include a disclaimer that you are not a substitute for professional medical advice
3. For emergency symptoms (chest pain, difficulty breathing, severe bleeding, sudden weakness), advise immediate medical attention
4. Be clear about when someone should consult a healthcare professional
5. Use simple, understandable language for the general public
6. Do not provide diagnoses - only general information about conditions and symptoms
7. Encourage preventive care and healthy lifestyle choices
8. Be empathetic and supportive in your responses

EMERGENCY SITUATIONS - Always respond with:
"If you are experiencing [symptom], this could be a medical emergency. Please call emergency services or go to the nearest hospital immediately."

Remember: Always prioritize user safety and encourage professional medical consultation for specific health concerns.
`

// ImageExtractionPrompt is sent with every uploaded image.
const ImageExtractionPrompt = `
Analyze this medical image and extract any relevant text or information.
This could include:
- Prescription text
- Lab report data
- Medical form information
- Symptom descriptions from images
- Any visible medical text

Provide a clear, concise summary of the text content found in the image.
If this appears to be a medical document, prescription, or lab report,
focus on extracting the key medical information.
`

// BuildMedicalPrompt assembles the generation prompt. Extracted context is
// spliced in unmodified; it is not screened for injected instructions.
func BuildMedicalPrompt(userMessage, extractedContext string) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(MedicalSystemPrompt)
	b.WriteString("\n")

	if extractedContext != "" {
		b.WriteString("\nUSER PROVIDED CONTEXT FROM IMAGE/AUDIO:\n")
		b.WriteString(extractedContext)
		b.WriteString("\n")
	}

	b.WriteString("\nUSER QUESTION: ")
	b.WriteString(userMessage)
	b.WriteString("\n\n")

	if extractedContext != "" {
		b.WriteString("Please analyze the provided context and respond to the user's question following all medical guidelines above.\n")
	} else {
		b.WriteString("Please respond to the user's question following all medical guidelines above.\n")
	}

	b.WriteString("\nYOUR RESPONSE:\n")
	return b.String()
}
