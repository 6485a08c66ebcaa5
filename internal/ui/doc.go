// Package ui provides the bodyscale terminal dashboard.
//
// The dashboard is a Bubble Tea program that reads from state.Store on a
// fixed tick and never talks to Withings itself; the poller in package app
// owns all network traffic. Three views are available:
//
//   - Measures: measurement groups, newest first, with weight and body
//     composition columns (composition is hidden on narrow terminals)
//   - User: account details plus the latest weight and recorded range
//   - Logs: the tail of the bodyscale JSON log file, coloured by level
//
// Theme and weight unit changes are persisted through package prefs.
//
// # Key Bindings
//
//   - m / u / l: Measures, User, Logs
//   - Tab: Cycle views
//   - j/k, g/G, ctrl+d/ctrl+u: Navigate
//   - U: Toggle kg/lb
//   - T: Cycle theme
//   - h or ?: Help
//   - e or Ctrl+C: Exit
package ui
