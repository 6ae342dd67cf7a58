package mock_reposync

//go:generate -command mockgen go run go.uber.org/mock/mockgen -package=$GOPACKAGE -destination=./mocks.go github.com/quay/addonrepo/reposync
//go:generate mockgen Store,ChecksumFetcher,ManifestParser,Gate,Reconciler
