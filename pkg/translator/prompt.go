package translator

import (
	"bytes"
	"fmt"
	"text/template"
)

const translationSystemTmpl = `Eres un traductor especializado entre {{.Source}} y {{.Target}}. Tu tarea es producir traducciones precisas y culturalmente apropiadas.

REGLAS IMPORTANTES:
- Mantén el significado original
- Usa vocabulario apropiado para el contexto educativo
- Si no conoces una palabra exacta, usa la más cercana y marca con [aprox.]
- Respeta las estructuras gramaticales de {{.Target}}
{{- if .Dictionary}}

DICCIONARIO DE REFERENCIA:
{{.Dictionary}}
{{- end}}
{{- if .Grammar}}

REGLAS GRAMATICALES:
{{.Grammar}}
{{- end}}`

const translationUserTmpl = `Traduce el siguiente texto de {{.Source}} a {{.Target}}:

{{.Text}}

Devuelve SOLO la traducción, sin explicaciones.`

const lessonSystemTmpl = `Eres un experto en educación intercultural bilingüe en Perú. Creas materiales educativos bilingües en Español y {{.Target}}. Tus lecciones son culturalmente respetuosas y pedagógicamente apropiadas para comunidades indígenas amazónicas.

Contexto lingüístico disponible:
{{.Dictionary}}`

const lessonUserTmpl = `Crea una lección bilingüe (Español/{{.Target}}) sobre: {{.Topic}}
Nivel: {{.Difficulty}}

La lección debe incluir:
1. Vocabulario clave (5-10 palabras) en ambos idiomas
2. Frases ejemplo en ambos idiomas
3. Un ejercicio práctico
4. Notas culturales relevantes`

const cultureSystemTmpl = `Eres un mediador cultural especializado en la cultura {{.Target}} de la Amazonía peruana. Ayudas a profesores hispanohablantes a entender el contexto cultural de las comunidades indígenas.

Notas culturales disponibles:
{{.Notes}}`

const cultureUserTmpl = `Explica el contexto cultural de este mensaje en {{.Target}}:

"{{.Text}}"

Incluye:
1. Significado cultural más allá de la traducción literal
2. Consideraciones de respeto cultural
3. Cómo usarlo apropiadamente en el aula`

// prompts holds the generation templates, parsed once at construction.
type prompts struct {
	translationSystem *template.Template
	translationUser   *template.Template
	lessonSystem      *template.Template
	lessonUser        *template.Template
	cultureSystem     *template.Template
	cultureUser       *template.Template
}

func newPrompts() *prompts {
	parse := func(name, text string) *template.Template {
		return template.Must(template.New(name).Parse(text))
	}
	return &prompts{
		translationSystem: parse("translation_system", translationSystemTmpl),
		translationUser:   parse("translation_user", translationUserTmpl),
		lessonSystem:      parse("lesson_system", lessonSystemTmpl),
		lessonUser:        parse("lesson_user", lessonUserTmpl),
		cultureSystem:     parse("culture_system", cultureSystemTmpl),
		cultureUser:       parse("culture_user", cultureUserTmpl),
	}
}

func render(t *template.Template, data any) (string, error) {
	buf := new(bytes.Buffer)
	if err := t.Execute(buf, data); err != nil {
		return "", fmt.Errorf("could not render prompt %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
