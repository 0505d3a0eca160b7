package diagram

import (
	"fmt"
	"strings"
)

// BuildInstruction asks the text model for one image-generation prompt that
// describes an educational chalkboard diagram of the topic.
func BuildInstruction(topic string) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Create a detailed prompt for generating an educational diagram about: \"%s\".\n\n", strings.TrimSpace(topic))
	sb.WriteString("The prompt should describe:\n")
	for _, line := range []string{
		"A clear, simple educational diagram",
		"Clean chalkboard or whiteboard style",
		"Key concepts with labels and arrows",
		"Easy to understand for students",
		"Professional and educational look",
	} {
		sb.WriteString("- ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\nReturn ONLY the image generation prompt, nothing else.")
	return sb.String()
}
