package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"smartfare-backend/config"
	"smartfare-backend/models"
)

var errNoJSONPayload = errors.New("no JSON payload in model response")

// GeminiService calls the Gemini generateContent API with an ordered
// multi-model fallback chain. Its external contract is that Recommend
// always yields a usable result for a non-empty offer list: when every
// model fails the heuristic ranker takes over.
type GeminiService struct {
	apiKey     string
	baseURL    string
	models     []string
	httpClient *http.Client
}

// NewGeminiService builds the AI client from configuration.
func NewGeminiService(cfg *config.Config) *GeminiService {
	return &GeminiService{
		apiKey:     cfg.GeminiAPIKey,
		baseURL:    cfg.GeminiBaseURL,
		models:     cfg.GeminiModels,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Gemini REST wire types.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Recommend asks the provider to analyze the offers and pick the best
// one. Every failure mode (network, provider error, unparseable payload)
// advances the model chain; if the whole chain fails, a non-empty offer
// list falls back to the deterministic ranker and an empty one yields no
// recommendation.
func (g *GeminiService) Recommend(ctx context.Context, offers []models.TrainOffer) *models.Recommendation {
	prompt := recommendationPrompt(offers)

	var lastErr error
	for _, model := range g.models {
		text, err := g.generateContent(ctx, model, prompt)
		if err != nil {
			log.Printf("Gemini model %s failed: %v", model, err)
			lastErr = err
			continue
		}

		payload, ok := firstJSONObject(text)
		if !ok {
			log.Printf("Gemini model %s returned no JSON object", model)
			lastErr = errNoJSONPayload
			continue
		}

		var rec models.Recommendation
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			log.Printf("Gemini model %s returned malformed recommendation: %v", model, err)
			lastErr = err
			continue
		}

		log.Printf("Gemini model %s produced a recommendation", model)
		return &rec
	}

	log.Printf("All Gemini models failed, using heuristic ranking: %v", lastErr)
	if len(offers) == 0 {
		return nil
	}
	return FallbackRecommendation(offers)
}

// SearchOffers asks the provider to enumerate offers for a route and
// date. Used when no database query path is configured. A fully failed
// chain yields an empty list.
func (g *GeminiService) SearchOffers(ctx context.Context, params models.SearchParams) []models.TrainOffer {
	prompt := offerSearchPrompt(params)

	var lastErr error
	for _, model := range g.models {
		text, err := g.generateContent(ctx, model, prompt)
		if err != nil {
			log.Printf("Gemini model %s failed: %v", model, err)
			lastErr = err
			continue
		}

		payload, ok := firstJSONArray(text)
		if !ok {
			log.Printf("Gemini model %s returned no JSON array", model)
			lastErr = errNoJSONPayload
			continue
		}

		var offers []models.TrainOffer
		if err := json.Unmarshal([]byte(payload), &offers); err != nil {
			log.Printf("Gemini model %s returned malformed offers: %v", model, err)
			lastErr = err
			continue
		}

		log.Printf("Gemini model %s found %d offers", model, len(offers))
		return offers
	}

	log.Printf("All Gemini models failed during offer discovery: %v", lastErr)
	return []models.TrainOffer{}
}

// generateContent performs one generateContent call against one model.
func (g *GeminiService) generateContent(ctx context.Context, model, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gemini API error (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model %s", model)
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

func recommendationPrompt(offers []models.TrainOffer) string {
	offersJSON, _ := json.MarshalIndent(offers, "", "  ")

	return fmt.Sprintf(`Sei un esperto consulente di viaggi in treno. Analizza queste offerte e fornisci una raccomandazione:

OFFERTE DISPONIBILI:
%s

Fornisci un'analisi dettagliata in formato JSON:
{
  "bestOffer": <l'offerta migliore tra quelle disponibili>,
  "reasoning": "Spiegazione dettagliata del perché questa è la scelta migliore",
  "alternatives": [<array di 2-3 alternative valide>],
  "priceAnalysis": "Analisi dei prezzi e confronto tra le offerte",
  "suggestion": "Consiglio finale: quando comprare, cosa considerare, ecc."
}

Considera:
- Rapporto qualità/prezzo
- Tempo di viaggio
- Numero di cambi
- Disponibilità

IMPORTANTE: Rispondi SOLO con un JSON valido, senza testo aggiuntivo.`, offersJSON)
}

func offerSearchPrompt(params models.SearchParams) string {
	passengers := params.Passengers
	if passengers < 1 {
		passengers = 1
	}

	return fmt.Sprintf(`Sei un assistente specializzato nella ricerca di biglietti ferroviari in Italia.
Ricerca biglietti treno per:

- Partenza: %s
- Arrivo: %s
- Data: %s
- Passeggeri: %d

Trova le migliori offerte da TUTTE le compagnie ferroviarie italiane:
1. Trenitalia (Frecciarossa, Frecciargento, Frecciabianca, Intercity, Regionale)
2. Italo (Italo, Italobus)
3. Trenord (per Lombardia)
4. Altri operatori regionali

Per ogni offerta, fornisci i seguenti dettagli in formato JSON:
{
  "company": "nome compagnia",
  "departureTime": "HH:MM",
  "arrivalTime": "HH:MM",
  "duration": "Xh Ymin",
  "price": numero (in euro),
  "trainType": "tipo treno (es: Frecciarossa, Italo, Regionale)",
  "changes": numero cambi,
  "availability": "available/few-seats/sold-out",
  "link": "URL dove acquistare (se disponibile)"
}

Restituisci un array JSON con TUTTE le offerte trovate, ordinate per orario di partenza.
Includi sia opzioni economiche che premium.

IMPORTANTE: Rispondi SOLO con un JSON array valido, senza testo aggiuntivo.`, params.From, params.To, params.Date, passengers)
}

// firstJSONObject extracts the first top-level balanced {...} object from
// free-form model output.
func firstJSONObject(text string) (string, bool) {
	return firstBalanced(text, '{', '}')
}

// firstJSONArray extracts the first top-level balanced [...] array.
func firstJSONArray(text string) (string, bool) {
	return firstBalanced(text, '[', ']')
}

func firstBalanced(text string, open, closing byte) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			if start >= 0 {
				inString = true
			}
		case open:
			if start < 0 {
				start = i
			}
			depth++
		case closing:
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}
