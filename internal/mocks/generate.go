package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/registry --output domain/registry --outpkg registrymock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Fetcher --dir ../domain/registry --output domain/registry --outpkg registrymock --filename fetcher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Service --dir ../domain/schedule --output domain/schedule --outpkg schedulemock --filename service_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/table --output domain/table --outpkg tablemock --filename store_mock.go
