package llm

import "fmt"

// BuildTeacherPrompt wraps the user's message in the virtual-teacher persona
// prompt. The reply must be a fenced JSON array of at most three segments so
// the script assembler can decode it.
func BuildTeacherPrompt(userMessage string) string {
	return fmt.Sprintf(`You are a virtual teacher.
Respond to the following message: %q

Provide your response as a JSON array with the following structure:
[
  {
    "text": "Your response text",
    "facialExpression": "smile/sad/angry/surprised/funnyFace/neutral",
    "animation": 'Asking', 'Concluding', 'Dissapointed', 'Explaining', 'Idle', 'QuickFormalBow', 'SoftSpeaking', 'Talking', 'ThumbsUp'
  }
]

Only use the specified facial expressions and animations without emojis.
Dont give too long answers, be concise and to the point.
Maximum 3 messages in the array.`, userMessage)
}
