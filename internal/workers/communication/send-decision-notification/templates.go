package senddecisionnotification

import (
	"fmt"
	"strings"

	"coaching-workers/internal/models"
)

type messageTemplate struct {
	subject string
	body    string
}

var candidateTemplates = map[models.Decision]messageTemplate{
	models.DecisionAccepted: {
		subject: "Votre candidature au programme {{programName}} est retenue",
		body:    "Bonjour {{candidateName}}, le jury a retenu votre candidature au programme {{programName}}. Votre conseiller vous contactera prochainement. {{comment}}",
	},
	models.DecisionRedirected: {
		subject: "Votre candidature au programme {{programName}}",
		body:    "Bonjour {{candidateName}}, le jury vous oriente vers {{partnerName}}, mieux à même de vous accompagner. {{comment}}",
	},
	models.DecisionRejected: {
		subject: "Votre candidature au programme {{programName}}",
		body:    "Bonjour {{candidateName}}, le jury n'a pas retenu votre candidature au programme {{programName}}. {{comment}}",
	},
	models.DecisionPending: {
		subject: "Votre candidature au programme {{programName}} est en cours d'examen",
		body:    "Bonjour {{candidateName}}, votre dossier est toujours à l'étude. Nous revenons vers vous dès que le jury a statué.",
	},
}

var advisorTemplate = messageTemplate{
	subject: "Nouveau candidat accompagné : {{candidateName}}",
	body:    "{{candidateName}} a été retenu(e) par le jury du programme {{programName}} et vous est confié(e). Décision {{decisionId}}.",
}

var partnerTemplate = messageTemplate{
	subject: "Orientation d'un candidat : {{candidateName}}",
	body:    "Le jury du programme {{programName}} vous oriente {{candidateName}} ({{candidateEmail}}). {{comment}}",
}

func templateData(input *Input) map[string]interface{} {
	return map[string]interface{}{
		"decisionId":     input.DecisionID,
		"programName":    input.ProgramName,
		"candidateName":  input.CandidateName,
		"candidateEmail": input.CandidateEmail,
		"partnerName":    input.PartnerName,
		"comment":        input.Comment,
	}
}

// renderTemplate substitutes {{key}} placeholders and drops the ones without a value.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		value := ""
		if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}
	return strings.TrimSpace(strings.Join(strings.Fields(result), " "))
}
