package mock_broken

//go:generate -command mockgen go run go.uber.org/mock/mockgen -package=$GOPACKAGE -destination=./mocks.go github.com/quay/addonrepo/broken
//go:generate mockgen Store,DependencyChecker,Prompter
