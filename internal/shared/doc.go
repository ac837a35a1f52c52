// Package shared holds code used across packages that belongs to no single
// layer. Its testutil subpackage provides log capture and series fixtures
// for tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	svc := services.NewSeriesService(dataprocessing.Load(testutil.ScenarioRows()),
//	    services.Options{Logger: logger})
//	...
//	testutil.AssertLogContains(t, logs, slog.LevelInfo, "Series loaded")
package shared
