package pollution

// Catalog is the static city reference list used by the random-sample path
// and the cache warmer: all 50 US state capitals plus Kuching. Loaded once,
// never mutated; callers copy before shuffling.
var Catalog = []Location{
	{Label: "Montgomery, Alabama", Lat: 32.361538, Lng: -86.279118},
	{Label: "Juneau, Alaska", Lat: 58.301935, Lng: -134.419740},
	{Label: "Phoenix, Arizona", Lat: 33.448457, Lng: -112.073844},
	{Label: "Little Rock, Arkansas", Lat: 34.736009, Lng: -92.331122},
	{Label: "Sacramento, California", Lat: 38.576668, Lng: -121.493629},
	{Label: "Denver, Colorado", Lat: 39.739236, Lng: -104.990251},
	{Label: "Hartford, Connecticut", Lat: 41.767, Lng: -72.677},
	{Label: "Dover, Delaware", Lat: 39.161921, Lng: -75.526755},
	{Label: "Tallahassee, Florida", Lat: 30.4518, Lng: -84.27277},
	{Label: "Atlanta, Georgia", Lat: 33.76, Lng: -84.39},
	{Label: "Honolulu, Hawaii", Lat: 21.30895, Lng: -157.826182},
	{Label: "Boise, Idaho", Lat: 43.613739, Lng: -116.237651},
	{Label: "Springfield, Illinois", Lat: 39.78325, Lng: -89.650373},
	{Label: "Indianapolis, Indiana", Lat: 39.790942, Lng: -86.147685},
	{Label: "Des Moines, Iowa", Lat: 41.590939, Lng: -93.620866},
	{Label: "Topeka, Kansas", Lat: 39.04, Lng: -95.69},
	{Label: "Frankfort, Kentucky", Lat: 38.197274, Lng: -84.86311},
	{Label: "Baton Rouge, Louisiana", Lat: 30.45809, Lng: -91.140229},
	{Label: "Augusta, Maine", Lat: 44.323535, Lng: -69.765261},
	{Label: "Annapolis, Maryland", Lat: 38.972945, Lng: -76.501157},
	{Label: "Boston, Massachusetts", Lat: 42.2352, Lng: -71.0275},
	{Label: "Lansing, Michigan", Lat: 42.354558, Lng: -84.955255},
	{Label: "Saint Paul, Minnesota", Lat: 44.95, Lng: -93.094},
	{Label: "Jackson, Mississippi", Lat: 32.320, Lng: -90.207},
	{Label: "Jefferson City, Missouri", Lat: 38.572954, Lng: -92.189283},
	{Label: "Helena, Montana", Lat: 46.595805, Lng: -112.027031},
	{Label: "Lincoln, Nebraska", Lat: 40.809868, Lng: -96.675345},
	{Label: "Carson City, Nevada", Lat: 39.161921, Lng: -119.767403},
	{Label: "Concord, New Hampshire", Lat: 43.220093, Lng: -71.549896},
	{Label: "Trenton, New Jersey", Lat: 40.221741, Lng: -74.756138},
	{Label: "Santa Fe, New Mexico", Lat: 35.667231, Lng: -105.964575},
	{Label: "Albany, New York", Lat: 42.659829, Lng: -73.781339},
	{Label: "Raleigh, North Carolina", Lat: 35.771, Lng: -78.638},
	{Label: "Bismarck, North Dakota", Lat: 46.813343, Lng: -100.779004},
	{Label: "Columbus, Ohio", Lat: 39.961176, Lng: -82.998794},
	{Label: "Oklahoma City, Oklahoma", Lat: 35.482309, Lng: -97.534994},
	{Label: "Salem, Oregon", Lat: 44.931109, Lng: -123.029159},
	{Label: "Harrisburg, Pennsylvania", Lat: 40.269789, Lng: -76.875613},
	{Label: "Providence, Rhode Island", Lat: 41.82355, Lng: -71.422132},
	{Label: "Columbia, South Carolina", Lat: 34.000, Lng: -81.035},
	{Label: "Pierre, South Dakota", Lat: 44.367966, Lng: -100.336378},
	{Label: "Nashville, Tennessee", Lat: 36.165, Lng: -86.784},
	{Label: "Austin, Texas", Lat: 30.266667, Lng: -97.75},
	{Label: "Salt Lake City, Utah", Lat: 40.777477, Lng: -111.888237},
	{Label: "Montpelier, Vermont", Lat: 44.26639, Lng: -72.580536},
	{Label: "Richmond, Virginia", Lat: 37.54, Lng: -77.46},
	{Label: "Olympia, Washington", Lat: 47.042418, Lng: -122.893077},
	{Label: "Charleston, West Virginia", Lat: 38.349497, Lng: -81.633294},
	{Label: "Madison, Wisconsin", Lat: 43.074722, Lng: -89.384444},
	{Label: "Cheyenne, Wyoming", Lat: 41.145548, Lng: -104.802042},
	{Label: "Kuching, Malaysia", Lat: 1.5535, Lng: 110.3593},
}
