// Package query converts the search form to and from flat URL parameters,
// the format used for shareable search links and search API requests.
package query

import (
	"net/url"
	"strconv"
	"time"

	"sky_flights_booking/internal/models"
)

// SerializeForm flattens the form into string parameters. Unset airports and
// dates serialize as empty strings.
func SerializeForm(form models.SearchForm) url.Values {
	params := url.Values{}
	params.Set("tripType", string(form.TripType))
	params.Set("originAirport", optionValue(form.OriginAirport))
	params.Set("originLabel", optionLabel(form.OriginAirport))
	params.Set("destinationAirport", optionValue(form.DestinationAirport))
	params.Set("destinationLabel", optionLabel(form.DestinationAirport))
	params.Set("departureDate", form.DepartureDate)
	params.Set("returnDate", form.ReturnDate)
	params.Set("adults", strconv.Itoa(form.Passengers.Adults))
	params.Set("children", strconv.Itoa(form.Passengers.Children))
	params.Set("infantsInSeat", strconv.Itoa(form.Passengers.InfantsInSeat))
	params.Set("infantsOnLap", strconv.Itoa(form.Passengers.InfantsOnLap))
	params.Set("selectedClass", form.SelectedClass.Value)
	params.Set("selectedClassLabel", form.SelectedClass.Label)
	return params
}

// DeserializeForm rebuilds a form from flat parameters. Absent values fall
// back to the documented defaults: roundtrip, departure today, one adult,
// the first cabin class option.
func DeserializeForm(params url.Values) models.SearchForm {
	form := models.SearchForm{
		TripType:           models.TripRoundtrip,
		OriginAirport:      paramOption(params, "originAirport", "originLabel"),
		DestinationAirport: paramOption(params, "destinationAirport", "destinationLabel"),
		DepartureDate:      params.Get("departureDate"),
		ReturnDate:         params.Get("returnDate"),
		Passengers: models.PassengerCounts{
			Adults:        atoiDefault(params.Get("adults"), 1),
			Children:      atoiDefault(params.Get("children"), 0),
			InfantsInSeat: atoiDefault(params.Get("infantsInSeat"), 0),
			InfantsOnLap:  atoiDefault(params.Get("infantsOnLap"), 0),
		},
		SelectedClass: models.ClassOptions()[0],
	}

	if tripType := params.Get("tripType"); tripType != "" {
		form.TripType = models.TripType(tripType)
	}
	if form.DepartureDate == "" {
		form.DepartureDate = time.Now().Format(models.DateLayout)
	}
	if class := params.Get("selectedClass"); class != "" {
		form.SelectedClass = models.Option{
			Value: class,
			Label: params.Get("selectedClassLabel"),
		}
	}

	return form
}

func paramOption(params url.Values, valueKey, labelKey string) *models.Option {
	value := params.Get(valueKey)
	if value == "" {
		return nil
	}
	return &models.Option{Value: value, Label: params.Get(labelKey)}
}

func optionValue(opt *models.Option) string {
	if opt == nil {
		return ""
	}
	return opt.Value
}

func optionLabel(opt *models.Option) string {
	if opt == nil {
		return ""
	}
	return opt.Label
}

func atoiDefault(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
