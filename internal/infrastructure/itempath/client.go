// Package itempath implementa el cliente saliente hacia la API de ItemPath:
// lectura del contenido de ubicaciones (fuente de inventario) y creación de
// órdenes de conteo. Sin reintentos internos: la política de recuperación es
// del coordinador (la siguiente corrida programada o manual).
package itempath

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	appcc "github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/application/cyclecount"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain"
	"github.com/PGCWI/PPG-And-Item-Path-Info-And-Data/internal/domain/entity"
)

// Interfaces del coordinador que este cliente satisface.
var _ appcc.InventorySource = (*Client)(nil)
var _ appcc.OrderSubmitter = (*Client)(nil)

// directionTypeCount es el directionType de las órdenes de conteo en ItemPath.
const directionTypeCount = 5

// Client cliente HTTP de la API de ItemPath.
type Client struct {
	baseURL     string
	accessToken string
	pageSize    int
	httpClient  *http.Client
}

// NewClient construye el cliente. El timeout acota cada request saliente para
// que una dependencia colgada no retenga el lock de corrida indefinidamente.
func NewClient(baseURL, accessToken string, timeout time.Duration, pageSize int) *Client {
	if pageSize <= 0 {
		pageSize = 5000
	}
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		accessToken: accessToken,
		pageSize:    pageSize,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// locationContentDTO fila del reporte de contenidos de ubicación de ItemPath.
type locationContentDTO struct {
	LocationID      string          `json:"locationId"`
	LocationName    string          `json:"locationName"`
	StorageUnitName string          `json:"storageUnitName"`
	CarrierName     string          `json:"carrierName"`
	ShelfName       string          `json:"shelfName"`
	Qualification   string          `json:"qualification"`
	MaterialID      string          `json:"materialId"`
	MaterialName    string          `json:"materialName"`
	GroupCode       string          `json:"groupCode"`
	Info1           string          `json:"info1"`
	QuantityCurrent decimal.Decimal `json:"quantityCurrent"`
	CountDate       string          `json:"countDate"`
	StorageDate     string          `json:"storageDate"`
	PutDate         string          `json:"putDate"`
}

type locationContentsResponse struct {
	LocationContents []locationContentDTO `json:"location_contents"`
}

// FetchLocationContents lee el snapshot completo de items por ubicación,
// paginando hasta agotar el reporte. Errores de red son ErrSourceUnavailable;
// violaciones de esquema son ErrSourceMalformed.
func (c *Client) FetchLocationContents(ctx context.Context) ([]entity.Item, error) {
	var items []entity.Item
	for page := 0; ; page++ {
		url := fmt.Sprintf("%s/location_contents?limit=%d&page=%d", c.baseURL, c.pageSize, page)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("armar request: %w", err)
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("GET location_contents: %v: %w", err, domain.ErrSourceUnavailable)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("leer respuesta: %v: %w", err, domain.ErrSourceUnavailable)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("GET location_contents: HTTP %d: %w", resp.StatusCode, domain.ErrSourceUnavailable)
		}

		var parsed locationContentsResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("decodificar location_contents: %v: %w", err, domain.ErrSourceMalformed)
		}

		for _, row := range parsed.LocationContents {
			item, err := row.toItem()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if len(parsed.LocationContents) < c.pageSize {
			return items, nil
		}
	}
}

func (d locationContentDTO) toItem() (entity.Item, error) {
	if d.LocationID == "" {
		return entity.Item{}, fmt.Errorf("fila sin locationId: %w", domain.ErrSourceMalformed)
	}
	putDate, err := parseDate(d.PutDate)
	if err != nil {
		return entity.Item{}, err
	}
	storageDate, err := parseDate(d.StorageDate)
	if err != nil {
		return entity.Item{}, err
	}
	countDate, err := parseDate(d.CountDate)
	if err != nil {
		return entity.Item{}, err
	}

	item := entity.Item{
		MaterialID:    d.MaterialID,
		MaterialName:  d.MaterialName,
		ItemTypeCode:  d.GroupCode,
		Info1:         d.Info1,
		LocationID:    d.LocationID,
		LocationName:  d.LocationName,
		StorageUnit:   d.StorageUnitName,
		Carrier:       d.CarrierName,
		Shelf:         d.ShelfName,
		Qualification: d.Qualification,
		Quantity:      d.QuantityCurrent,
		PutDate:       putDate,
		StorageDate:   storageDate,
	}
	if !countDate.IsZero() {
		item.LastCountDate = &countDate
	}
	return item, nil
}

// parseDate acepta los formatos de fecha que ItemPath devuelve según el campo.
// Vacío o null serializado se tratan como fecha ausente (cero).
func parseDate(s string) (time.Time, error) {
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha %q no reconocida: %w", s, domain.ErrSourceMalformed)
}

// orderPayload cuerpo de POST /orders.
type orderPayload struct {
	Name          string          `json:"name"`
	DirectionType int             `json:"directionType"`
	Priority      int             `json:"priority"`
	Deadline      string          `json:"deadline"`
	Locations     []orderLocation `json:"locations"`
}

type orderLocation struct {
	ID string `json:"id"`
}

type orderResponse struct {
	Order struct {
		ID string `json:"id"`
	} `json:"order"`
}

// CreateCountOrder crea la orden de conteo en ItemPath. Dos desenlaces blandos
// se devuelven como flags en vez de error: 422 por nombre duplicado (la orden
// ya existe de una corrida anterior) y 400 por falta de líneas de orden.
func (c *Client) CreateCountOrder(ctx context.Context, order *entity.CountOrder) (appcc.SubmitResult, error) {
	payload := orderPayload{
		Name:          order.BatchName,
		DirectionType: directionTypeCount,
		Priority:      order.Priority,
		Deadline:      order.Deadline.Format(time.RFC3339),
		Locations:     []orderLocation{{ID: order.LocationID}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return appcc.SubmitResult{}, fmt.Errorf("serializar orden: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return appcc.SubmitResult{}, fmt.Errorf("armar request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return appcc.SubmitResult{}, fmt.Errorf("POST orders: %v: %w", err, domain.ErrSourceUnavailable)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return appcc.SubmitResult{}, fmt.Errorf("leer respuesta: %v: %w", err, domain.ErrSourceUnavailable)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var parsed orderResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return appcc.SubmitResult{}, fmt.Errorf("decodificar orden: %v: %w", err, domain.ErrSourceMalformed)
		}
		return appcc.SubmitResult{OrderID: parsed.Order.ID}, nil
	case http.StatusUnprocessableEntity:
		if strings.Contains(string(respBody), "already exists") {
			return appcc.SubmitResult{AlreadyExists: true}, nil
		}
		return appcc.SubmitResult{}, fmt.Errorf("POST orders: HTTP 422: %s", respBody)
	case http.StatusBadRequest:
		if strings.Contains(string(respBody), "at least one order line") {
			return appcc.SubmitResult{NoOrderLines: true}, nil
		}
		return appcc.SubmitResult{}, fmt.Errorf("POST orders: HTTP 400: %s", respBody)
	default:
		return appcc.SubmitResult{}, fmt.Errorf("POST orders: HTTP %d: %w", resp.StatusCode, domain.ErrSourceUnavailable)
	}
}

// GetOrderIDByName busca el id de una orden por nombre exacto (reconciliación
// con órdenes creadas en corridas anteriores). Devuelve ErrNotFound si no hay
// coincidencia.
func (c *Client) GetOrderIDByName(ctx context.Context, name string) (string, error) {
	// El nombre viaja escapado: un prefijo adicional con '&' o '#' no debe
	// romper el query string.
	url := fmt.Sprintf("%s/orders?limit=1&name=%s", c.baseURL, neturl.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("armar request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET orders: %v: %w", err, domain.ErrSourceUnavailable)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET orders: HTTP %d: %w", resp.StatusCode, domain.ErrSourceUnavailable)
	}

	var parsed struct {
		Orders []struct {
			ID string `json:"id"`
		} `json:"orders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decodificar orders: %v: %w", err, domain.ErrSourceMalformed)
	}
	if len(parsed.Orders) == 0 {
		return "", domain.ErrNotFound
	}
	return parsed.Orders[0].ID, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
}
