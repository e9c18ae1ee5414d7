// Package pagination accumulates feed pages fetched by a caller supplied
// page function.
//
// A Controller owns the items fetched so far, the next page number and the
// loading/exhaustion/error flags a screen needs to render an infinite
// scrolling list. It never performs I/O itself: every page comes from the
// OnLoadMore function, and every failure of that function is stored as the
// controller's error instead of being returned.
//
// Typical use from a command or a Bubble Tea model:
//
//	ctrl := pagination.New(pagination.Options[api.Post]{
//		PageSize:   10,
//		OnLoadMore: func(ctx context.Context, page int) ([]api.Post, error) {
//			resp, err := api.GetFeed(ctx, page, 10)
//			if err != nil {
//				return nil, err
//			}
//			return resp.Posts, nil
//		},
//	})
//	for ctrl.HasMore() {
//		if !ctrl.LoadMore(ctx) || ctrl.Err() != "" {
//			break
//		}
//	}
package pagination
