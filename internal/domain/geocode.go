package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding attempts to attach a place name to a fire.
// If geocoder is nil the record is returned unchanged. Failures set GeoSource
// to "failed" and never abort the caller (graceful degradation).
func EnrichWithGeocoding(ctx context.Context, fire FireRecord, geocoder Geocoder, logger *slog.Logger) FireRecord {
	if geocoder == nil {
		return fire
	}
	if !fire.HasCoordinates() {
		fire.GeoSource = "original"
		return fire
	}

	result, err := geocoder.ReverseGeocode(ctx, fire.Latitude, fire.Longitude)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"fire_id", fire.ID,
			"fire_name", fire.FireName,
			"lat", fire.Latitude,
			"lon", fire.Longitude,
			"error", err,
		)
		fire.GeoSource = "failed"
		return fire
	}
	if result.FormattedAddress == "" {
		fire.GeoSource = "original"
		return fire
	}

	fire.PlaceName = result.FormattedAddress
	fire.GeoSource = "reverse"
	return fire
}

// EnrichAll geocodes every fire in order and returns a new slice.
func EnrichAll(ctx context.Context, fires []FireRecord, geocoder Geocoder, logger *slog.Logger) []FireRecord {
	out := make([]FireRecord, len(fires))
	for i, f := range fires {
		if ctx.Err() != nil {
			copy(out[i:], fires[i:])
			break
		}
		out[i] = EnrichWithGeocoding(ctx, f, geocoder, logger)
	}
	return out
}
