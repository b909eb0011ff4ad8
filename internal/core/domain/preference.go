package domain

import "time"

// PreferenceSource records how a currency preference was decided.
type PreferenceSource string

const (
	// PreferenceSourceExplicit means the user picked the currency themselves.
	PreferenceSourceExplicit PreferenceSource = "explicit"
	// PreferenceSourceAuto means the currency was derived from geolocation
	// or the static default.
	PreferenceSourceAuto PreferenceSource = "auto"
)

// UserCurrencyPreference is the per-session display-currency decision. It is
// owned exclusively by the resolver: conversion and formatting calls never
// mutate it.
type UserCurrencyPreference struct {
	Code   string           `json:"code"`
	Source PreferenceSource `json:"source"`
	SetAt  time.Time        `json:"setAt"`
}

// GeoResolutionMethod identifies which step of the geolocation fallback
// chain produced a country code.
type GeoResolutionMethod string

const (
	GeoMethodRemote   GeoResolutionMethod = "remote"
	GeoMethodLocale   GeoResolutionMethod = "locale"
	GeoMethodTimezone GeoResolutionMethod = "timezone"
	GeoMethodDefault  GeoResolutionMethod = "default"
)

// GeoResolutionResult is the outcome of one country-resolution attempt. It
// is ephemeral and recomputed on each attempt; it is never persisted.
type GeoResolutionResult struct {
	CountryCode string              `json:"countryCode"`
	Method      GeoResolutionMethod `json:"method"`
}
